package knowledge

// Static reference data: crop calendars, pest tables, best practices.
// Stage windows are MM-DD and may wrap the year boundary (e.g. Nov-Mar);
// they are interpreted cyclically, never as absolute dates.

type Season string

const (
	SeasonKharif Season = "kharif"
	SeasonRabi   Season = "rabi"
	SeasonZaid   Season = "zaid"
	SeasonAll    Season = "all"
)

type StageWindow struct {
	Name   string
	Start  string // MM-DD
	End    string // MM-DD
	Advice string
}

type CropCalendarEntry struct {
	Crop             string
	Seasons          map[Season][]StageWindow
	Varieties        []string
	SoilTypes        []string
	WaterRequirement string // low|medium|high
	DurationDays     int
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type PestRecord struct {
	Name           string
	ScientificName string
	Type           string // insect|fungal|bacterial|viral
	Severity       Severity
	Season         Season // kharif|rabi|all
	Symptoms       []string
	Treatment      []string
	Prevention     []string
}

var cropCalendars = map[string]CropCalendarEntry{
	"rice": {
		Crop: "rice",
		Seasons: map[Season][]StageWindow{
			SeasonKharif: {
				{Name: "sowing", Start: "06-01", End: "07-15", Advice: "Prepare nursery beds and use certified seed; transplant at 21-25 days."},
				{Name: "transplanting", Start: "07-01", End: "08-15", Advice: "Maintain 2-3 cm standing water for the first week after transplanting."},
				{Name: "vegetative", Start: "08-01", End: "09-30", Advice: "Apply first nitrogen split and keep fields weed free."},
				{Name: "flowering", Start: "09-15", End: "10-31", Advice: "Do not let the field dry out; flowering is the most water sensitive stage."},
				{Name: "harvest", Start: "10-15", End: "11-30", Advice: "Harvest at 20-22% grain moisture and dry to 14% before storage."},
			},
		},
		Varieties:        []string{"IR-64", "Swarna", "Basmati-370", "MTU-1010"},
		SoilTypes:        []string{"clay", "loam"},
		WaterRequirement: "high",
		DurationDays:     120,
	},
	"wheat": {
		Crop: "wheat",
		Seasons: map[Season][]StageWindow{
			SeasonRabi: {
				{Name: "sowing", Start: "11-01", End: "12-15", Advice: "Sow before mid December; late sowing costs 1% yield per day."},
				{Name: "tillering", Start: "12-10", End: "01-31", Advice: "First irrigation at crown root initiation, about 21 days after sowing."},
				{Name: "grain_filling", Start: "02-01", End: "03-15", Advice: "Avoid moisture stress during grain filling; watch for terminal heat."},
				{Name: "harvest", Start: "03-15", End: "04-30", Advice: "Harvest when grains are hard and straw turns golden."},
			},
		},
		Varieties:        []string{"HD-2967", "PBW-343", "Lok-1"},
		SoilTypes:        []string{"loam", "clay", "black"},
		WaterRequirement: "medium",
		DurationDays:     140,
	},
	"cotton": {
		Crop: "cotton",
		Seasons: map[Season][]StageWindow{
			SeasonKharif: {
				{Name: "sowing", Start: "05-01", End: "06-30", Advice: "Sow after a good pre-monsoon shower; maintain plant spacing."},
				{Name: "squaring", Start: "07-01", End: "08-31", Advice: "Scout weekly for sucking pests from squaring onwards."},
				{Name: "boll_development", Start: "09-01", End: "10-31", Advice: "Apply potassium during boll development for fibre quality."},
				{Name: "picking", Start: "10-15", End: "01-15", Advice: "Pick in dry weather, keep seed cotton free of trash."},
			},
		},
		Varieties:        []string{"Bt-Hybrid", "Suraj", "DCH-32"},
		SoilTypes:        []string{"black", "loam"},
		WaterRequirement: "medium",
		DurationDays:     180,
	},
	"sugarcane": {
		Crop: "sugarcane",
		Seasons: map[Season][]StageWindow{
			SeasonRabi: {
				{Name: "planting", Start: "11-01", End: "02-28", Advice: "Use three-bud setts treated against sett rot; plant in moist furrows."},
				{Name: "tillering", Start: "03-01", End: "05-31", Advice: "Earth up and apply nitrogen at peak tillering."},
				{Name: "grand_growth", Start: "06-01", End: "10-31", Advice: "Grand growth needs the most water; do not skip irrigations."},
				{Name: "maturity", Start: "11-01", End: "03-31", Advice: "Withhold irrigation 2-3 weeks before harvest to raise sucrose."},
			},
		},
		Varieties:        []string{"Co-86032", "CoJ-64", "Co-0238"},
		SoilTypes:        []string{"loam", "clay", "black"},
		WaterRequirement: "high",
		DurationDays:     365,
	},
	"maize": {
		Crop: "maize",
		Seasons: map[Season][]StageWindow{
			SeasonKharif: {
				{Name: "sowing", Start: "06-15", End: "07-31", Advice: "Sow on ridges in high rainfall areas to avoid waterlogging."},
				{Name: "knee_high", Start: "07-15", End: "08-31", Advice: "Side dress nitrogen at knee-high stage."},
				{Name: "tasseling", Start: "08-15", End: "09-30", Advice: "Moisture stress at tasseling halves yield; irrigate if dry spell exceeds a week."},
				{Name: "harvest", Start: "09-15", End: "10-31", Advice: "Harvest when husks dry and grains show black layer."},
			},
		},
		Varieties:        []string{"HQPM-1", "DHM-117", "Ganga-5"},
		SoilTypes:        []string{"loam", "sandy", "red"},
		WaterRequirement: "medium",
		DurationDays:     100,
	},
}

var cropPests = map[string][]PestRecord{
	"rice": {
		{
			Name: "Brown Plant Hopper", ScientificName: "Nilaparvata lugens", Type: "insect",
			Severity: SeverityHigh, Season: SeasonKharif,
			Symptoms:   []string{"hopper burn in circular patches", "plants dry up from the base", "honeydew and sooty mould at the base"},
			Treatment:  []string{"drain the field for 3-4 days", "spray imidacloprid 17.8 SL at 125 ml/ha directed at the base"},
			Prevention: []string{"avoid excess nitrogen", "keep alleyways of 30 cm every 2-3 m", "use resistant varieties"},
		},
		{
			Name: "Stem Borer", ScientificName: "Scirpophaga incertulas", Type: "insect",
			Severity: SeverityMedium, Season: SeasonAll,
			Symptoms:   []string{"dead hearts in vegetative stage", "white ears at maturity"},
			Treatment:  []string{"apply cartap hydrochloride 4G granules", "release Trichogramma egg parasitoids"},
			Prevention: []string{"clip seedling leaf tips before transplanting", "remove stubble after harvest"},
		},
		{
			Name: "Rice Blast", ScientificName: "Magnaporthe oryzae", Type: "fungal",
			Severity: SeverityCritical, Season: SeasonKharif,
			Symptoms:   []string{"spindle shaped lesions with grey centres", "neck rot below the panicle"},
			Treatment:  []string{"spray tricyclazole 75 WP at 0.6 g/l at first appearance"},
			Prevention: []string{"seed treatment with carbendazim", "split nitrogen applications"},
		},
	},
	"wheat": {
		{
			Name: "Yellow Rust", ScientificName: "Puccinia striiformis", Type: "fungal",
			Severity: SeverityHigh, Season: SeasonRabi,
			Symptoms:   []string{"yellow stripes of pustules along leaf veins", "stunted growth in patches"},
			Treatment:  []string{"spray propiconazole 25 EC at 0.1% at first sighting"},
			Prevention: []string{"grow rust resistant varieties", "avoid late sowing"},
		},
		{
			Name: "Aphids", ScientificName: "Sitobion avenae", Type: "insect",
			Severity: SeverityMedium, Season: SeasonRabi,
			Symptoms:   []string{"colonies on ears and flag leaf", "sticky honeydew on foliage"},
			Treatment:  []string{"spray dimethoate 30 EC if colonies exceed 5 per tiller"},
			Prevention: []string{"conserve ladybird beetles", "balanced fertilisation"},
		},
	},
	"cotton": {
		{
			Name: "Pink Bollworm", ScientificName: "Pectinophora gossypiella", Type: "insect",
			Severity: SeverityCritical, Season: SeasonKharif,
			Symptoms:   []string{"rosetted flowers", "interlocular boring and stained lint in bolls"},
			Treatment:  []string{"install pheromone traps at 5/ha and spray when moth catch crosses threshold", "spray profenophos 50 EC"},
			Prevention: []string{"terminate the crop by January", "avoid extended fruiting windows"},
		},
		{
			Name: "Whitefly", ScientificName: "Bemisia tabaci", Type: "insect",
			Severity: SeverityMedium, Season: SeasonKharif,
			Symptoms:   []string{"yellowing and downward curling of leaves", "sooty mould on honeydew"},
			Treatment:  []string{"spray neem oil 5 ml/l, rotate with diafenthiuron"},
			Prevention: []string{"remove alternate hosts around the field", "avoid early excess nitrogen"},
		},
	},
	"sugarcane": {
		{
			Name: "Early Shoot Borer", ScientificName: "Chilo infuscatellus", Type: "insect",
			Severity: SeverityHigh, Season: SeasonAll,
			Symptoms:   []string{"dead hearts in 1-3 month crop that pull out easily", "bore holes at ground level"},
			Treatment:  []string{"apply chlorantraniliprole 18.5 SC as soil drench"},
			Prevention: []string{"trash mulching along rows", "light earthing up at 45 days"},
		},
	},
	"maize": {
		{
			Name: "Fall Armyworm", ScientificName: "Spodoptera frugiperda", Type: "insect",
			Severity: SeverityCritical, Season: SeasonKharif,
			Symptoms:   []string{"ragged shot holes on leaves", "sawdust-like frass in the whorl"},
			Treatment:  []string{"whorl application of emamectin benzoate 5 SG", "poison baiting in late whorl stage"},
			Prevention: []string{"early uniform sowing over an area", "intercrop with pulses"},
		},
	},
}

// BestPracticeSet holds general snippets plus per-crop specifics for one
// activity category.
type BestPracticeSet struct {
	General  []string
	Specific map[string][]string
}

var bestPractices = map[string]BestPracticeSet{
	"irrigation": {
		General: []string{
			"Irrigate early morning or late evening to cut evaporation losses.",
			"Check soil moisture at root depth before every irrigation instead of following the calendar blindly.",
			"Maintain field channels; conveyance losses waste more water than most field practices.",
			"Mulch row crops to stretch the interval between irrigations.",
		},
		Specific: map[string][]string{
			"rice":      {"Alternate wetting and drying saves 25-30% water without yield loss.", "Keep 2-3 cm standing water only during flowering."},
			"wheat":     {"Crown root initiation and grain filling are the two irrigations you must never skip."},
			"sugarcane": {"Furrow irrigation with alternate skip rows works well on loam soils."},
		},
	},
	"fertilizer": {
		General: []string{
			"Soil test every 2-3 years and fertilise to the test, not to habit.",
			"Split nitrogen into at least two or three applications.",
			"Apply phosphorus at sowing; top dressing it later is wasted.",
			"Add organic manure to maintain soil structure along with chemical fertiliser.",
		},
		Specific: map[string][]string{
			"rice":  {"Use a leaf colour chart to time nitrogen splits."},
			"maize": {"Side dress nitrogen at knee-high; maize takes most of its nitrogen after that stage."},
		},
	},
	"pest_control": {
		General: []string{
			"Scout the field at least weekly; thresholds, not calendar sprays, should trigger treatment.",
			"Rotate chemical groups to delay resistance.",
			"Preserve natural enemies; avoid broad-spectrum sprays early in the season.",
		},
		Specific: map[string][]string{
			"cotton": {"Pheromone trap counts are the cheapest early warning for bollworms."},
		},
	},
	"sowing": {
		General: []string{
			"Use certified seed and treat it before sowing.",
			"Sow into moisture; dry sowing gambles the whole stand on the next rain.",
			"Zaid vegetables need assured irrigation; plan the summer window only with a reliable source.",
		},
		Specific: map[string][]string{
			"wheat": {"Every day of delay after the optimal window costs roughly 1% of yield."},
		},
	},
	"harvest": {
		General: []string{
			"Harvest at physiological maturity; field drying beyond that only invites losses.",
			"Clean and dry produce before storage; most storage loss starts in the field.",
		},
		Specific: map[string][]string{
			"sugarcane": {"Deliver cane to the mill within 24 hours of cutting to avoid sucrose loss."},
		},
	},
}
