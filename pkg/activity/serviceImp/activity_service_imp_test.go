package serviceImp

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmadvisor/database"
	"farmadvisor/entities"
	"farmadvisor/pkg/activity/repositoryImp"
)

func newTestSvc(t *testing.T) *ActivitySvc {
	t.Helper()
	return New(repositoryImp.New(database.OpenSQLite(":memory:")))
}

func TestCreateValidatesAndDefaults(t *testing.T) {
	svc := newTestSvc(t)

	a, err := svc.Create(entities.Activity{UserID: "u1", Type: "sowing", Crop: "rice", Area: 1.5})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, entities.ActivityPlanned, a.Status)
	assert.False(t, a.Date.IsZero())

	_, err = svc.Create(entities.Activity{Type: "sowing"})
	require.Error(t, err)
	_, err = svc.Create(entities.Activity{UserID: "u1", Type: "sowing", Cost: -5})
	require.Error(t, err)
}

func TestListUpcomingOverdue(t *testing.T) {
	svc := newTestSvc(t)
	now := time.Now()

	mk := func(typ string, date time.Time, status entities.ActivityStatus) {
		_, err := svc.Create(entities.Activity{UserID: "u1", Type: typ, Crop: "rice", Date: date, Status: status})
		require.NoError(t, err)
	}
	mk("irrigation", now.AddDate(0, 0, 3), entities.ActivityPlanned)
	mk("harvest", now.AddDate(0, 0, 30), entities.ActivityPlanned)
	mk("sowing", now.AddDate(0, 0, -5), entities.ActivityPlanned)
	mk("fertilizer", now.AddDate(0, 0, -2), entities.ActivityCompleted)

	all, err := svc.List("u1", Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	planned, err := svc.List("u1", Filters{Status: entities.ActivityPlanned})
	require.NoError(t, err)
	assert.Len(t, planned, 3)

	upcoming, err := svc.Upcoming("u1", 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "irrigation", upcoming[0].Type)

	overdue, err := svc.Overdue("u1")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "sowing", overdue[0].Type)
}

func TestStatsAndIssues(t *testing.T) {
	svc := newTestSvc(t)

	a, err := svc.Create(entities.Activity{UserID: "u1", Type: "pesticide", Crop: "cotton", Cost: 1200, Status: entities.ActivityCompleted})
	require.NoError(t, err)
	_, err = svc.Create(entities.Activity{UserID: "u1", Type: "irrigation", Crop: "cotton", Cost: 300})
	require.NoError(t, err)

	_, err = svc.AddIssue(a.ID, entities.ActivityIssue{Description: "sprayer nozzle clogged"})
	require.NoError(t, err)
	_, err = svc.AddIssue(a.ID, entities.ActivityIssue{})
	require.Error(t, err)

	st, err := svc.Stats("u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.InDelta(t, 1500, st.TotalCost, 0.01)
	assert.InDelta(t, 1200, st.CostByType["pesticide"], 0.01)
	assert.InDelta(t, 50.0, st.CompletionRate, 0.01)
	assert.Equal(t, 1, st.OpenIssues)
}

func TestExportCSV(t *testing.T) {
	svc := newTestSvc(t)
	_, err := svc.Create(entities.Activity{UserID: "u1", Type: "harvest", Crop: "wheat", Area: 2, Cost: 5000})
	require.NoError(t, err)

	data, err := svc.ExportCSV("u1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "id,type,crop")
	assert.Contains(t, lines[1], "harvest")
	assert.Contains(t, lines[1], "wheat")
}
