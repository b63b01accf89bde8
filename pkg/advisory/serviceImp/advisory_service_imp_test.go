package serviceImp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmadvisor/database"
	"farmadvisor/entities"
	"farmadvisor/pkg/advisory/repository"
	"farmadvisor/pkg/advisory/repositoryImp"
	"farmadvisor/pkg/advisory/service"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/knowledge"
)

type stubProfiles struct{ user *entities.User }

func (s stubProfiles) FindByID(id string) (*entities.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, apperr.NotFound("USER", "user not found: "+id)
	}
	return s.user, nil
}

func newTestSvc(t *testing.T) (*AdvisorySvc, repository.AdvisoryRepository) {
	t.Helper()
	db := database.OpenSQLite(":memory:")
	repo := repositoryImp.New(db)
	profiles := stubProfiles{user: &entities.User{
		ID:       "u1",
		Name:     "Asha",
		Location: "Nashik",
		Crops:    []entities.CropRecord{{Name: "grapes"}, {Name: "onion"}},
	}}
	return New(repo, knowledge.New(nil), profiles), repo
}

func mustCreate(t *testing.T, svc *AdvisorySvc, in entities.Advisory) *entities.Advisory {
	t.Helper()
	if in.Content.Title == "" {
		in.Content = entities.AdvisoryContent{Title: "t", Message: "m"}
	}
	a, err := svc.Create(in)
	require.NoError(t, err)
	return a
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestSvc(t)

	a := mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryPest})
	got, err := svc.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, entities.AdvisoryPest, got.Type)
	assert.Equal(t, entities.StatusActive, got.Engagement.Status)

	_, err = svc.Create(entities.Advisory{UserID: ""})
	require.Error(t, err)

	_, err = svc.GetByID("nope")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ADVISORY_NOT_FOUND", appErr.Code)
}

func TestUpdateStatusAndFeedback(t *testing.T) {
	svc, _ := newTestSvc(t)
	a := mustCreate(t, svc, entities.Advisory{UserID: "u1"})

	updated, err := svc.UpdateStatus(a.ID, entities.StatusRead, "")
	require.NoError(t, err)
	require.NotNil(t, updated.Engagement.ReadAt)

	_, err = svc.UpdateStatus(a.ID, "archived", "")
	require.Error(t, err)

	updated, err = svc.AddFeedback(a.ID, "helpful", "worked well")
	require.NoError(t, err)
	assert.Equal(t, "helpful", updated.Engagement.Feedback)
	assert.Equal(t, "worked well", updated.Engagement.UserNotes)

	_, err = svc.AddFeedback(a.ID, "meh", "")
	require.Error(t, err)
}

func TestListFiltersSortsAndPaginates(t *testing.T) {
	svc, _ := newTestSvc(t)

	mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryMarket, Priority: entities.PriorityLow})
	mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryWeather, Priority: entities.PriorityCritical})
	mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryPest, Priority: entities.PriorityHigh})
	mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryIrrigation, Priority: entities.PriorityMedium})
	mustCreate(t, svc, entities.Advisory{UserID: "u2", Type: entities.AdvisoryPest, Priority: entities.PriorityHigh})

	page, err := svc.List("u1", 0, 0, service.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 4)
	assert.Equal(t, entities.PriorityCritical, page.Items[0].Priority)
	assert.Equal(t, entities.PriorityLow, page.Items[3].Priority)

	page, err = svc.List("u1", 2, 3, service.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entities.PriorityLow, page.Items[0].Priority)

	page, err = svc.List("u1", 1, 10, service.Filters{Type: entities.AdvisoryPest})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestActiveAndUrgent(t *testing.T) {
	svc, repo := newTestSvc(t)

	mustCreate(t, svc, entities.Advisory{UserID: "u1", Priority: entities.PriorityCritical})
	dismissed := mustCreate(t, svc, entities.Advisory{UserID: "u1", Priority: entities.PriorityHigh})
	_, err := svc.UpdateStatus(dismissed.ID, entities.StatusDismissed, "")
	require.NoError(t, err)

	// expired but still marked active
	expired := entities.NewAdvisory(entities.Advisory{
		UserID:  "u1",
		Content: entities.AdvisoryContent{Title: "old", Message: "old"},
		Timing: entities.AdvisoryTiming{
			CreatedAt:  time.Now().AddDate(0, 0, -10),
			ValidUntil: time.Now().AddDate(0, 0, -3),
		},
	})
	require.NoError(t, repo.Create(expired))

	active, err := svc.Active("u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, entities.PriorityCritical, active[0].Priority)

	urgent, err := svc.Urgent("u1")
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, entities.UrgencyImmediate, urgent[0].Timing.UrgencyLevel)
}

func TestCleanupExpiredKeepsActedUpon(t *testing.T) {
	svc, repo := newTestSvc(t)

	mk := func(status entities.AdvisoryStatus, validUntil time.Time) *entities.Advisory {
		a := entities.NewAdvisory(entities.Advisory{
			UserID:  "u1",
			Content: entities.AdvisoryContent{Title: "t", Message: "m"},
			Timing:  entities.AdvisoryTiming{CreatedAt: time.Now().AddDate(0, 0, -10), ValidUntil: validUntil},
		})
		a.Engagement.Status = status
		require.NoError(t, repo.Create(a))
		return a
	}

	expiredActive := mk(entities.StatusActive, time.Now().AddDate(0, 0, -1))
	expiredActed := mk(entities.StatusActedUpon, time.Now().AddDate(0, 0, -1))
	current := mk(entities.StatusActive, time.Now().AddDate(0, 0, 5))

	removed, err := svc.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = svc.GetByID(expiredActive.ID)
	assert.Error(t, err)
	_, err = svc.GetByID(expiredActed.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(current.ID)
	assert.NoError(t, err)
}

func TestUserStats(t *testing.T) {
	svc, _ := newTestSvc(t)

	a := mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryPest})
	mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryWeather})
	_, err := svc.UpdateStatus(a.ID, entities.StatusActedUpon, "")
	require.NoError(t, err)
	_, err = svc.AddFeedback(a.ID, "helpful", "")
	require.NoError(t, err)

	st, err := svc.UserStats("u1", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.ByType["pest"])
	assert.Equal(t, 1, st.ByStatus["acted_upon"])
	assert.Equal(t, 1, st.Feedback["helpful"])
	assert.InDelta(t, 50.0, st.EngagementRate, 0.01)
}

func TestGeneratePersistsWithTriggerWindow(t *testing.T) {
	svc, _ := newTestSvc(t)

	a, err := svc.Generate("u1", "weather_rain", map[string]any{"rainExpected": true, "rainProbability": 85})
	require.NoError(t, err)
	assert.Equal(t, entities.AdvisoryWeather, a.Type)
	assert.Equal(t, entities.PriorityHigh, a.Priority)
	assert.Equal(t, entities.UrgencyUrgent, a.Timing.UrgencyLevel)
	assert.Equal(t, 85.0, a.Triggers.Confidence)
	assert.Equal(t, "weather_rain", a.Triggers.Source)
	assert.Contains(t, a.Content.Title, "Nashik")
	assert.NotEmpty(t, a.Context.Season)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 2), a.Timing.ValidUntil, time.Minute)

	stored, err := svc.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Content.Title, stored.Content.Title)
}

func TestGenerateSameTriggerSameClassification(t *testing.T) {
	svc, _ := newTestSvc(t)
	data := map[string]any{"severity": "high", "pest": "Fall Armyworm", "crop": "maize"}

	first, err := svc.Generate("u1", "pest_outbreak", data)
	require.NoError(t, err)
	second, err := svc.Generate("u1", "pest_outbreak", data)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Type, second.Type)
	assert.Equal(t, first.Priority, second.Priority)
	assert.Equal(t, first.Content.Title, second.Content.Title)
}

func TestGenerateUnknownProfileFallsBack(t *testing.T) {
	svc, _ := newTestSvc(t)
	a, err := svc.Generate("ghost", "weather_rain", nil)
	require.NoError(t, err)
	assert.Contains(t, a.Content.Title, "your area")
}

func TestFromTemplate(t *testing.T) {
	svc, _ := newTestSvc(t)

	a, err := svc.FromTemplate("u1", "harvest_reminder", map[string]any{"crop": "grapes"})
	require.NoError(t, err)
	assert.Equal(t, entities.AdvisoryHarvest, a.Type)
	assert.Equal(t, entities.PriorityHigh, a.Priority)
	assert.Equal(t, "template:harvest_reminder", a.Triggers.Source)
	assert.Contains(t, a.Content.Title, "grapes")
	// template path takes the per-type default window, not a trigger window
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 10), a.Timing.ValidUntil, time.Minute)

	_, err = svc.FromTemplate("u1", "unknown_template", nil)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TEMPLATE_NOT_FOUND", appErr.Code)
}

func TestBulkStatus(t *testing.T) {
	svc, _ := newTestSvc(t)
	a := mustCreate(t, svc, entities.Advisory{UserID: "u1"})
	b := mustCreate(t, svc, entities.Advisory{UserID: "u1"})

	n, err := svc.BulkStatus([]string{a.ID, b.ID, "missing"}, entities.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestActionPlanSpreadsSteps(t *testing.T) {
	svc, _ := newTestSvc(t)
	a, err := svc.Generate("u1", "harvest_ready", map[string]any{"crop": "grapes"})
	require.NoError(t, err)

	plan, err := svc.ActionPlanFor(a.ID)
	require.NoError(t, err)
	require.Len(t, plan.Steps, len(a.Content.ActionItems))
	for i, step := range plan.Steps {
		assert.Equal(t, i+1, step.Step)
		if i > 0 {
			assert.True(t, step.DueBy.After(plan.Steps[i-1].DueBy))
		}
	}
	last := plan.Steps[len(plan.Steps)-1]
	assert.WithinDuration(t, a.Timing.ValidUntil, last.DueBy, time.Second)
}

func TestAdminEffectiveness(t *testing.T) {
	svc, _ := newTestSvc(t)

	p := mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryPest})
	mustCreate(t, svc, entities.Advisory{UserID: "u1", Type: entities.AdvisoryWeather})
	mustCreate(t, svc, entities.Advisory{UserID: "u2", Type: entities.AdvisoryWeather})
	_, err := svc.UpdateStatus(p.ID, entities.StatusActedUpon, "")
	require.NoError(t, err)
	_, err = svc.AddFeedback(p.ID, "helpful", "")
	require.NoError(t, err)

	eff, err := svc.AdminEffectiveness(0)
	require.NoError(t, err)
	assert.Equal(t, 3, eff.Total)
	require.NotEmpty(t, eff.TopTypes)
	assert.Equal(t, entities.AdvisoryPest, eff.TopTypes[0].Type)
	assert.InDelta(t, 100.0/3, eff.ActionRate, 0.01)
}

func TestOfflineExport(t *testing.T) {
	svc, _ := newTestSvc(t)
	mustCreate(t, svc, entities.Advisory{UserID: "u1"})
	mustCreate(t, svc, entities.Advisory{UserID: "u2"})

	out, err := svc.OfflineExport("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", out.UserID)
	assert.Len(t, out.Advisories, 1)
}
