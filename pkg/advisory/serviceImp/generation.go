package serviceImp

import (
	"fmt"
	"strings"
	"time"

	"farmadvisor/entities"
)

// Rule-based advisory synthesis: ordered keyword classification, additive
// urgency scoring, templated content, trigger-specific validity windows.

type triggerRule struct {
	keywords []string
	atype    entities.AdvisoryType
}

// Classification precedence. Multiple keywords can appear in one trigger
// string; the first rule that matches wins.
var triggerRules = []triggerRule{
	{[]string{"weather", "rain", "storm", "cyclone", "drought"}, entities.AdvisoryWeather},
	{[]string{"pest", "disease"}, entities.AdvisoryPest},
	{[]string{"irrigation", "water"}, entities.AdvisoryIrrigation},
	{[]string{"fertilizer", "nutrient"}, entities.AdvisoryFertilizer},
	{[]string{"harvest"}, entities.AdvisoryHarvest},
	{[]string{"market", "price"}, entities.AdvisoryMarket},
	{[]string{"scheme", "subsidy"}, entities.AdvisoryScheme},
}

func classifyTrigger(trigger string) entities.AdvisoryType {
	t := strings.ToLower(trigger)
	for _, rule := range triggerRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.atype
			}
		}
	}
	return entities.AdvisoryGeneral
}

func urgencyScore(trigger string, data map[string]any) int {
	t := strings.ToLower(trigger)
	score := 1
	if strings.Contains(t, "rain") && boolVal(data["rainExpected"]) {
		score += 2
	}
	if strings.Contains(t, "storm") || strings.Contains(t, "cyclone") {
		score += 3
	}
	if strings.Contains(t, "outbreak") {
		score += 3
	}
	if sev := strings.ToLower(strVal(data["severity"])); sev == "high" || sev == "critical" {
		score += 2
	}
	if strings.Contains(t, "sowing") || strings.Contains(t, "harvest") {
		score += 2
	}
	if strings.Contains(t, "price_spike") {
		score += 2
	}
	return score
}

func priorityForScore(score int) entities.Priority {
	switch {
	case score >= 4:
		return entities.PriorityCritical
	case score >= 3:
		return entities.PriorityHigh
	case score >= 2:
		return entities.PriorityMedium
	default:
		return entities.PriorityLow
	}
}

// validity window per trigger keyword, checked in order; default 7 days.
var triggerValidity = []struct {
	keyword string
	days    int
}{
	{"drought", 7},
	{"rain", 2},
	{"pest_outbreak", 5},
	{"irrigation_schedule", 1},
	{"fertilizer_timing", 3},
	{"harvest_ready", 7},
	{"market_opportunity", 2},
	{"scheme_deadline", 30},
}

func validityDaysForTrigger(trigger string) int {
	t := strings.ToLower(trigger)
	for _, tv := range triggerValidity {
		if strings.Contains(t, tv.keyword) {
			return tv.days
		}
	}
	return 7
}

// content templates keyed by canonical trigger name. Placeholders {crop},
// {pest}, {location} and {crops} are interpolated from trigger data and the
// user's farm profile.
type contentTemplate struct {
	title   string
	message string
	actions []string
}

var triggerTemplates = map[string]contentTemplate{
	"weather_rain": {
		title:   "Rain expected over {location}",
		message: "Rainfall is likely in the coming days over {location}. Postpone irrigation and spraying for {crops} and make sure drains are clear.",
		actions: []string{"Skip the next scheduled irrigation", "Postpone pesticide and fertilizer sprays", "Clear field drainage channels"},
	},
	"weather_storm": {
		title:   "Storm warning for {location}",
		message: "Strong winds and heavy rain are forecast near {location}. Protect standing {crops} and secure loose farm equipment.",
		actions: []string{"Stake or support tall crops", "Harvest anything already mature", "Secure sheds, pumps and stored produce"},
	},
	"weather_drought": {
		title:   "Dry spell ahead",
		message: "An extended dry period is expected around {location}. Prioritise irrigation for {crops} and conserve soil moisture.",
		actions: []string{"Irrigate the most water-sensitive crop first", "Mulch to reduce evaporation", "Check pump and water source capacity"},
	},
	"pest_outbreak": {
		title:   "{pest} outbreak reported near you",
		message: "{pest} has been reported on {crop} in your area. Inspect your field today and act before it spreads.",
		actions: []string{"Scout the field for early symptoms", "Apply the recommended treatment if threshold is crossed", "Alert neighbouring farms"},
	},
	"irrigation_schedule": {
		title:   "Irrigation due for {crop}",
		message: "Soil moisture will drop below the comfortable range for {crop}. Irrigate within the next day.",
		actions: []string{"Irrigate during early morning or evening", "Verify soil moisture at root depth first"},
	},
	"fertilizer_timing": {
		title:   "Fertilizer window for {crop}",
		message: "The current growth stage of {crop} is the right window for the next fertilizer application.",
		actions: []string{"Apply the recommended dose for this stage", "Irrigate lightly after application"},
	},
	"harvest_ready": {
		title:   "{crop} approaching harvest",
		message: "Your {crop} is in its harvest window. Plan labour and transport now to avoid field losses.",
		actions: []string{"Arrange harvest labour and equipment", "Check market prices before selling", "Prepare clean, dry storage"},
	},
	"market_opportunity": {
		title:   "Good price for {crop}",
		message: "Market prices for {crop} have moved up. Consider selling stored produce while the price holds.",
		actions: []string{"Compare prices at nearby mandis", "Sell in lots rather than all at once"},
	},
	"scheme_deadline": {
		title:   "Scheme application deadline approaching",
		message: "A government scheme relevant to your farm closes soon. Submit your application before the deadline.",
		actions: []string{"Collect the required documents", "Submit the application at the nearest centre or online"},
	},
}

var fallbackTemplate = contentTemplate{
	title:   "Farm advisory",
	message: "New guidance is available for your farm at {location}. Review the details and plan accordingly.",
	actions: []string{"Review the advisory details", "Consult your local extension officer if unsure"},
}

func renderContent(trigger string, data map[string]any, user *entities.User) entities.AdvisoryContent {
	tpl, ok := triggerTemplates[strings.ToLower(trigger)]
	if !ok {
		tpl = fallbackTemplate
	}
	crop := strVal(data["crop"])
	if crop == "" {
		crop = "your crop"
	}
	pest := strVal(data["pest"])
	if pest == "" {
		pest = "A pest"
	}
	location := "your area"
	crops := "your crops"
	if user != nil {
		if user.Location != "" {
			location = user.Location
		}
		if names := cropNames(user.Crops); names != "" {
			crops = names
		}
	}
	r := strings.NewReplacer("{crop}", crop, "{pest}", pest, "{location}", location, "{crops}", crops)
	msg := r.Replace(tpl.message)
	actions := make([]string, len(tpl.actions))
	for i, a := range tpl.actions {
		actions[i] = r.Replace(a)
	}
	return entities.AdvisoryContent{
		Title:       r.Replace(tpl.title),
		Message:     msg,
		Summary:     firstSentence(msg),
		ActionItems: actions,
	}
}

// impact defaults per advisory type; coarse but stable.
var impactDefaults = map[entities.AdvisoryType]entities.AdvisoryImpact{
	entities.AdvisoryWeather:    {EstimatedBenefit: "avoid weather losses", RiskLevel: "high", CostImplication: "low", TimeRequired: "1 day", DifficultyLevel: "easy"},
	entities.AdvisoryPest:       {EstimatedBenefit: "10-30% yield protected", RiskLevel: "high", CostImplication: "medium", TimeRequired: "2-3 days", DifficultyLevel: "moderate"},
	entities.AdvisoryIrrigation: {EstimatedBenefit: "water saved, stress avoided", RiskLevel: "medium", CostImplication: "low", TimeRequired: "half day", DifficultyLevel: "easy"},
	entities.AdvisoryFertilizer: {EstimatedBenefit: "better nutrient uptake", RiskLevel: "medium", CostImplication: "medium", TimeRequired: "1 day", DifficultyLevel: "easy"},
	entities.AdvisoryHarvest:    {EstimatedBenefit: "reduced field losses", RiskLevel: "medium", CostImplication: "high", TimeRequired: "3-7 days", DifficultyLevel: "moderate"},
	entities.AdvisoryMarket:     {EstimatedBenefit: "better sale price", RiskLevel: "low", CostImplication: "low", TimeRequired: "1 day", DifficultyLevel: "easy"},
	entities.AdvisoryScheme:     {EstimatedBenefit: "subsidy or support", RiskLevel: "low", CostImplication: "low", TimeRequired: "2-3 days", DifficultyLevel: "moderate"},
	entities.AdvisoryGeneral:    {EstimatedBenefit: "improved practice", RiskLevel: "low", CostImplication: "low", TimeRequired: "varies", DifficultyLevel: "easy"},
}

// named templates for the POST /advisories/templates/:templateType surface.
// These take the type-table validity default rather than a trigger window.
var namedTemplates = map[string]struct {
	atype    entities.AdvisoryType
	priority entities.Priority
	trigger  string
}{
	"weather_alert":       {entities.AdvisoryWeather, entities.PriorityHigh, "weather_rain"},
	"pest_warning":        {entities.AdvisoryPest, entities.PriorityHigh, "pest_outbreak"},
	"irrigation_tip":      {entities.AdvisoryIrrigation, entities.PriorityMedium, "irrigation_schedule"},
	"fertilizer_reminder": {entities.AdvisoryFertilizer, entities.PriorityMedium, "fertilizer_timing"},
	"harvest_reminder":    {entities.AdvisoryHarvest, entities.PriorityHigh, "harvest_ready"},
	"market_update":       {entities.AdvisoryMarket, entities.PriorityLow, "market_opportunity"},
	"scheme_alert":        {entities.AdvisoryScheme, entities.PriorityMedium, "scheme_deadline"},
}

func cropNames(crops []entities.CropRecord) string {
	var names []string
	for _, c := range crops {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!"); i > 0 {
		return s[:i+1]
	}
	return s
}

func strVal(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func boolVal(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func floatVal(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func confidenceFrom(data map[string]any) float64 {
	if c, ok := floatVal(data["confidence"]); ok && c >= 0 && c <= 100 {
		return c
	}
	if p, ok := floatVal(data["rainProbability"]); ok && p >= 0 && p <= 100 {
		return p
	}
	return 75
}

func validityFrom(now time.Time, trigger string) time.Time {
	return now.AddDate(0, 0, validityDaysForTrigger(trigger))
}
