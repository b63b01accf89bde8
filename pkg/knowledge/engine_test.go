package knowledge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmadvisor/entities"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func TestCurrentSeason(t *testing.T) {
	e := New(nil)
	for _, m := range []int{4, 5, 6, 7, 8, 9} {
		assert.Equal(t, SeasonKharif, e.CurrentSeason(date(2025, m, 15)), "month %d", m)
	}
	for _, m := range []int{1, 2, 3, 10, 11, 12} {
		assert.Equal(t, SeasonRabi, e.CurrentSeason(date(2025, m, 15)), "month %d", m)
	}
}

func TestCropCalendar(t *testing.T) {
	e := New(nil)

	entry := e.CropCalendar("  Rice ")
	require.NotNil(t, entry)
	assert.Equal(t, "rice", entry.Crop)
	assert.Len(t, entry.Seasons[SeasonKharif], 5)

	assert.Nil(t, e.CropCalendar("quinoa"))
	assert.Nil(t, e.SeasonStages("rice", SeasonRabi))
}

func TestCurrentCropStage_WithinSeason(t *testing.T) {
	e := New(nil)

	st := e.CurrentCropStage("rice", SeasonKharif, date(2025, 6, 20))
	require.NotNil(t, st)
	assert.Equal(t, "sowing", st.Stage)
	assert.NotEmpty(t, st.Recommendation)

	// overlapping windows: first declared stage wins
	st = e.CurrentCropStage("rice", SeasonKharif, date(2025, 7, 10))
	require.NotNil(t, st)
	assert.Equal(t, "sowing", st.Stage)

	assert.Nil(t, e.CurrentCropStage("rice", SeasonKharif, date(2025, 1, 10)))
}

func TestCurrentCropStage_WrapsYearBoundary(t *testing.T) {
	e := New(nil)

	// sugarcane planting runs 11-01 .. 02-28, crossing the year end
	for _, d := range []time.Time{date(2025, 12, 15), date(2026, 1, 10), date(2025, 11, 1), date(2026, 2, 28)} {
		st := e.CurrentCropStage("sugarcane", SeasonRabi, d)
		require.NotNil(t, st, "%s", d)
		assert.Equal(t, "planting", st.Stage, "%s", d)
	}

	// mid-year dates must not match the wrapped window
	st := e.CurrentCropStage("sugarcane", SeasonRabi, date(2025, 6, 1))
	require.NotNil(t, st)
	assert.Equal(t, "grand_growth", st.Stage)

	// wheat tillering wraps 12-10 .. 01-31
	st = e.CurrentCropStage("wheat", SeasonRabi, date(2026, 1, 15))
	require.NotNil(t, st)
	assert.Equal(t, "tillering", st.Stage)
}

func TestCropPests_SeasonFilter(t *testing.T) {
	e := New(nil)

	assert.Len(t, e.CropPests("rice", ""), 3)

	kharif := e.CropPests("rice", SeasonKharif)
	assert.Len(t, kharif, 3) // two kharif pests plus the all-season borer

	rabi := e.CropPests("rice", SeasonRabi)
	require.Len(t, rabi, 1)
	assert.Equal(t, "Stem Borer", rabi[0].Name)

	assert.Empty(t, e.CropPests("quinoa", ""))
}

func TestSuitableCrops(t *testing.T) {
	e := New(nil)

	kharif := e.SuitableCrops(SeasonKharif, "")
	require.Len(t, kharif, 3)
	assert.Equal(t, "cotton", kharif[0].Crop)
	assert.Equal(t, "maize", kharif[1].Crop)
	assert.Equal(t, "rice", kharif[2].Crop)

	black := e.SuitableCrops(SeasonKharif, "black")
	require.Len(t, black, 1)
	assert.Equal(t, "cotton", black[0].Crop)
}

func TestBestPractices(t *testing.T) {
	e := New(nil)

	general, specific := e.BestPractices("irrigation", "rice")
	assert.Len(t, general, 4)
	assert.Len(t, specific, 2)

	general, specific = e.BestPractices("irrigation", "")
	assert.Len(t, general, 4)
	assert.Empty(t, specific)

	general, specific = e.BestPractices("welding", "rice")
	assert.Nil(t, general)
	assert.Nil(t, specific)
}

func TestGenerateRecommendations(t *testing.T) {
	e := New(nil)

	recs := e.GenerateRecommendations(UserContext{
		CurrentSeason: SeasonKharif,
		Crops:         []entities.CropRecord{{Name: "Rice"}},
	})
	require.NotEmpty(t, recs)

	var alerts []Recommendation
	for _, r := range recs {
		if r.Type == "pest_alert" {
			alerts = append(alerts, r)
		}
	}
	// BPH (high) and Rice Blast (critical) are in season; Stem Borer is
	// medium and must not alert.
	require.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.Equal(t, entities.PriorityHigh, a.Priority)
		assert.NotEmpty(t, a.Treatment)
	}

	// high priority entries sort ahead of everything else
	assert.Equal(t, entities.PriorityHigh, recs[0].Priority)
	last := recs[len(recs)-1]
	assert.NotEqual(t, entities.PriorityHigh, last.Priority)
}

func TestGenerateRecommendations_UnknownCrop(t *testing.T) {
	e := New(nil)
	recs := e.GenerateRecommendations(UserContext{
		CurrentSeason: SeasonKharif,
		Crops:         []entities.CropRecord{{Name: "quinoa"}, {Name: ""}},
	})
	assert.Empty(t, recs)
}

type stubArticles struct{ items []entities.KnowledgeArticle }

func (s stubArticles) ListArticles() ([]entities.KnowledgeArticle, error) { return s.items, nil }

func TestSearchKnowledge(t *testing.T) {
	e := New(stubArticles{items: []entities.KnowledgeArticle{
		{Title: "Blast disease notes", SourceURL: "https://icar.example/blast", Tags: "fungal"},
	}})

	out := e.SearchKnowledge("rice blast")
	require.NotEmpty(t, out)

	// "Rice Blast" matches both terms and outranks the crop and the article
	assert.Equal(t, "pest", out[0].Kind)
	assert.Equal(t, "Rice Blast", out[0].Name)

	kinds := map[string]bool{}
	for i := range out {
		kinds[out[i].Kind] = true
		if i > 0 {
			assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
		}
	}
	assert.True(t, kinds["crop"])
	assert.True(t, kinds["article"])

	assert.Nil(t, e.SearchKnowledge("   "))
	assert.Empty(t, e.SearchKnowledge("zzzz"))
}

func TestLoadCalendarCSVOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calendar.csv")
	csv := "Crop,Season,Stage,Start,End,Advice\n" +
		"Mustard,rabi,sowing,10-15,11-15,Sow with residual moisture\n" +
		"mustard,rabi,flowering,12-15,01-31,Protect against aphids\n" +
		"badrow,rabi,,10-01,11-01,skipped\n" +
		"badrow,rabi,sowing,soon,11-01,skipped\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	e := New(nil)
	require.NoError(t, e.LoadOverlays(path, ""))

	entry := e.CropCalendar("mustard")
	require.NotNil(t, entry)
	assert.Len(t, entry.Seasons[SeasonRabi], 2)
	assert.Nil(t, e.CropCalendar("badrow"))

	// overlays land on the engine copy, not the package table
	fresh := New(nil)
	assert.Nil(t, fresh.CropCalendar("mustard"))

	st := e.CurrentCropStage("mustard", SeasonRabi, date(2026, 1, 10))
	require.NotNil(t, st)
	assert.Equal(t, "flowering", st.Stage)
}
