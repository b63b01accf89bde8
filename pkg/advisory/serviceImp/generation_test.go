package serviceImp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"farmadvisor/entities"
)

func TestClassifyTrigger(t *testing.T) {
	cases := map[string]entities.AdvisoryType{
		"weather_rain":          entities.AdvisoryWeather,
		"Heavy RAIN tomorrow":   entities.AdvisoryWeather,
		"storm warning":         entities.AdvisoryWeather,
		"drought":               entities.AdvisoryWeather,
		"pest_outbreak":         entities.AdvisoryPest,
		"leaf disease spotted":  entities.AdvisoryPest,
		"irrigation_schedule":   entities.AdvisoryIrrigation,
		"low water table":       entities.AdvisoryIrrigation,
		"fertilizer_timing":     entities.AdvisoryFertilizer,
		"nutrient deficiency":   entities.AdvisoryFertilizer,
		"harvest_ready":         entities.AdvisoryHarvest,
		"market_opportunity":    entities.AdvisoryMarket,
		"price drop":            entities.AdvisoryMarket,
		"scheme_deadline":       entities.AdvisoryScheme,
		"new subsidy announced": entities.AdvisoryScheme,
		"something else":        entities.AdvisoryGeneral,
	}
	for trigger, want := range cases {
		assert.Equal(t, want, classifyTrigger(trigger), "%s", trigger)
	}
}

func TestClassifyTriggerPrecedence(t *testing.T) {
	// weather keywords outrank pest keywords when both appear
	assert.Equal(t, entities.AdvisoryWeather, classifyTrigger("rain may spread pest"))
	assert.Equal(t, entities.AdvisoryPest, classifyTrigger("pest pressure before harvest"))
}

func TestClassifyTriggerIdempotent(t *testing.T) {
	for _, trigger := range []string{"weather_rain", "pest_outbreak", "odd trigger"} {
		first := classifyTrigger(trigger)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, classifyTrigger(trigger))
		}
	}
}

func TestUrgencyScoreAndPriority(t *testing.T) {
	assert.Equal(t, entities.PriorityLow, priorityForScore(urgencyScore("general_info", nil)))

	// rain alone scores 1; a confirmed forecast lifts it to high
	dry := urgencyScore("weather_rain", map[string]any{"rainExpected": false})
	wet := urgencyScore("weather_rain", map[string]any{"rainExpected": true})
	assert.Greater(t, wet, dry)
	assert.Equal(t, entities.PriorityHigh, priorityForScore(wet))

	assert.Equal(t, entities.PriorityCritical, priorityForScore(urgencyScore("storm alert", nil)))
	assert.Equal(t, entities.PriorityCritical, priorityForScore(urgencyScore("cyclone watch", nil)))
	assert.Equal(t, entities.PriorityCritical,
		priorityForScore(urgencyScore("pest_outbreak", map[string]any{"severity": "critical"})))
	assert.Equal(t, entities.PriorityHigh, priorityForScore(urgencyScore("price_spike in mandi", nil)))
	assert.Equal(t, entities.PriorityHigh, priorityForScore(urgencyScore("harvest_ready", nil)))
}

func TestUrgencyScoreMonotonic(t *testing.T) {
	base := urgencyScore("pest_outbreak", map[string]any{})
	withSeverity := urgencyScore("pest_outbreak", map[string]any{"severity": "high"})
	assert.GreaterOrEqual(t, withSeverity, base)
}

func TestValidityDaysForTrigger(t *testing.T) {
	cases := map[string]int{
		"weather_drought":     7, // drought wins over the generic rain window
		"weather_rain":        2,
		"pest_outbreak":       5,
		"irrigation_schedule": 1,
		"fertilizer_timing":   3,
		"harvest_ready":       7,
		"market_opportunity":  2,
		"scheme_deadline":     30,
		"anything else":       7,
	}
	for trigger, days := range cases {
		assert.Equal(t, days, validityDaysForTrigger(trigger), "%s", trigger)
	}
}

func TestRenderContentInterpolation(t *testing.T) {
	user := &entities.User{
		Location: "Nagpur",
		Crops:    []entities.CropRecord{{Name: "cotton"}, {Name: "soybean"}},
	}
	content := renderContent("weather_rain", nil, user)
	assert.Contains(t, content.Title, "Nagpur")
	assert.Contains(t, content.Message, "cotton, soybean")
	assert.NotEmpty(t, content.ActionItems)
	assert.NotEmpty(t, content.Summary)
	assert.NotContains(t, content.Message, "{")

	content = renderContent("pest_outbreak", map[string]any{"pest": "Pink Bollworm", "crop": "cotton"}, nil)
	assert.Contains(t, content.Title, "Pink Bollworm")
	assert.Contains(t, content.Message, "cotton")

	// unknown triggers fall back to the generic template
	content = renderContent("mystery", nil, nil)
	assert.Equal(t, "Farm advisory", content.Title)
	assert.Contains(t, content.Message, "your area")
}

func TestConfidenceFrom(t *testing.T) {
	assert.Equal(t, 90.0, confidenceFrom(map[string]any{"confidence": 90.0}))
	assert.Equal(t, 60.0, confidenceFrom(map[string]any{"rainProbability": 60}))
	assert.Equal(t, 75.0, confidenceFrom(map[string]any{}))
	assert.Equal(t, 75.0, confidenceFrom(map[string]any{"confidence": 300.0}))
}

func TestValidityFrom(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, 2), validityFrom(now, "weather_rain"))
	assert.Equal(t, now.AddDate(0, 0, 30), validityFrom(now, "scheme_deadline"))
}
