package knowledge

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"farmadvisor/entities"
)

// ArticleSource supplies ingested reference articles to knowledge search.
// nil is fine; search then covers only the built-in tables.
type ArticleSource interface {
	ListArticles() ([]entities.KnowledgeArticle, error)
}

// Engine answers season/stage/pest/practice questions over the static
// tables, optionally overlaid with rows loaded from CSV/XLSX files.
type Engine struct {
	calendars map[string]CropCalendarEntry
	pests     map[string][]PestRecord
	practices map[string]BestPracticeSet
	articles  ArticleSource
}

func New(articles ArticleSource) *Engine {
	// Copy the package tables so file overlays never mutate them.
	cals := make(map[string]CropCalendarEntry, len(cropCalendars))
	for k, v := range cropCalendars {
		cals[k] = v
	}
	pests := make(map[string][]PestRecord, len(cropPests))
	for k, v := range cropPests {
		pests[k] = v
	}
	return &Engine{calendars: cals, pests: pests, practices: bestPractices, articles: articles}
}

// CurrentSeason partitions the year into kharif (Apr-Sep) and rabi
// (Oct-Mar). Zaid appears in practice data but is never returned here; the
// two-season partition is kept as-is.
func (e *Engine) CurrentSeason(t time.Time) Season {
	m := int(t.Month())
	if m >= 4 && m <= 9 {
		return SeasonKharif
	}
	return SeasonRabi
}

// CropCalendar returns the full calendar entry for a crop, case-insensitive.
// nil when the crop is unknown.
func (e *Engine) CropCalendar(crop string) *CropCalendarEntry {
	entry, ok := e.calendars[strings.ToLower(strings.TrimSpace(crop))]
	if !ok {
		return nil
	}
	return &entry
}

// SeasonStages returns one season's stage windows, or nil.
func (e *Engine) SeasonStages(crop string, season Season) []StageWindow {
	entry := e.CropCalendar(crop)
	if entry == nil {
		return nil
	}
	return entry.Seasons[season]
}

type CropSuggestion struct {
	Crop             string   `json:"crop"`
	Varieties        []string `json:"varieties"`
	WaterRequirement string   `json:"water_requirement"`
	DurationDays     int      `json:"duration_days"`
}

// SuitableCrops filters the calendar table by season and soil type; empty
// arguments mean no filter.
func (e *Engine) SuitableCrops(season Season, soilType string) []CropSuggestion {
	soil := strings.ToLower(strings.TrimSpace(soilType))
	var out []CropSuggestion
	for _, entry := range e.calendars {
		if season != "" {
			if _, ok := entry.Seasons[season]; !ok {
				continue
			}
		}
		if soil != "" && !containsFold(entry.SoilTypes, soil) {
			continue
		}
		out = append(out, CropSuggestion{
			Crop:             entry.Crop,
			Varieties:        entry.Varieties,
			WaterRequirement: entry.WaterRequirement,
			DurationDays:     entry.DurationDays,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Crop < out[j].Crop })
	return out
}

// CropPests returns the pests applicable to a crop in a season. An empty
// season returns everything; a pest marked "all" always applies.
func (e *Engine) CropPests(crop string, season Season) []PestRecord {
	records := e.pests[strings.ToLower(strings.TrimSpace(crop))]
	if season == "" {
		return records
	}
	var out []PestRecord
	for _, p := range records {
		if p.Season == SeasonAll || p.Season == season {
			out = append(out, p)
		}
	}
	return out
}

// BestPractices returns the general snippets for an activity plus the
// crop-specific ones when a crop is given. Unknown activities yield empty
// sets, never an error.
func (e *Engine) BestPractices(activity, crop string) (general, specific []string) {
	set, ok := e.practices[strings.ToLower(strings.TrimSpace(activity))]
	if !ok {
		return nil, nil
	}
	general = set.General
	if crop != "" {
		specific = set.Specific[strings.ToLower(strings.TrimSpace(crop))]
	}
	return general, specific
}

type StageInfo struct {
	Stage          string `json:"stage"`
	Timing         string `json:"timing"`
	Recommendation string `json:"recommendation"`
}

// CurrentCropStage finds the stage whose window contains now, comparing
// month*100+day cyclically: a window that wraps the year boundary
// (start > end) matches when now >= start OR now <= end. First declared
// match wins.
func (e *Engine) CurrentCropStage(crop string, season Season, now time.Time) *StageInfo {
	stages := e.SeasonStages(crop, season)
	if stages == nil {
		return nil
	}
	cur := int(now.Month())*100 + now.Day()
	for _, st := range stages {
		start := mmdd(st.Start)
		end := mmdd(st.End)
		if start < 0 || end < 0 {
			continue
		}
		inside := false
		if start <= end {
			inside = cur >= start && cur <= end
		} else {
			inside = cur >= start || cur <= end
		}
		if inside {
			return &StageInfo{
				Stage:          st.Name,
				Timing:         st.Start + " to " + st.End,
				Recommendation: st.Advice,
			}
		}
	}
	return nil
}

func mmdd(s string) int {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return -1
	}
	m, err1 := strconv.Atoi(parts[0])
	d, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return -1
	}
	return m*100 + d
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

// UserContext is assembled per call from profile/farm collaborators; the
// engine never persists it.
type UserContext struct {
	Location        string
	SoilType        string
	IrrigationType  string
	FarmingType     string
	ExperienceYears int
	Crops           []entities.CropRecord
	CurrentSeason   Season
}

type Recommendation struct {
	Type      string            `json:"type"` // seasonal_stage|pest_alert|best_practice
	Crop      string            `json:"crop,omitempty"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Priority  entities.Priority `json:"priority"`
	Category  string            `json:"category"`
	Treatment []string          `json:"treatment,omitempty"`
}

var recPriorityOrder = map[entities.Priority]int{
	entities.PriorityHigh: 3, entities.PriorityMedium: 2, entities.PriorityLow: 1,
}

// GenerateRecommendations synthesizes a ranked list for the user's crops:
// the active seasonal stage, an alert per high/critical pest in season, and
// one irrigation tip. Sorted high > medium > low.
func (e *Engine) GenerateRecommendations(ctx UserContext) []Recommendation {
	season := ctx.CurrentSeason
	if season == "" {
		season = e.CurrentSeason(time.Now())
	}
	var recs []Recommendation
	for _, crop := range ctx.Crops {
		name := strings.ToLower(strings.TrimSpace(crop.Name))
		if name == "" {
			continue
		}
		if stage := e.CurrentCropStage(name, season, time.Now()); stage != nil {
			recs = append(recs, Recommendation{
				Type:     "seasonal_stage",
				Crop:     name,
				Title:    "Current stage: " + stage.Stage,
				Message:  stage.Recommendation,
				Priority: entities.PriorityMedium,
				Category: "crop_management",
			})
		}
		for _, pest := range e.CropPests(name, season) {
			if pest.Severity != SeverityHigh && pest.Severity != SeverityCritical {
				continue
			}
			recs = append(recs, Recommendation{
				Type:      "pest_alert",
				Crop:      name,
				Title:     "Watch for " + pest.Name,
				Message:   "Symptoms: " + strings.Join(pest.Symptoms, "; "),
				Priority:  entities.PriorityHigh,
				Category:  "pest_management",
				Treatment: pest.Treatment,
			})
		}
		if tip := e.randomPractice("irrigation", name); tip != "" {
			recs = append(recs, Recommendation{
				Type:     "best_practice",
				Crop:     name,
				Title:    "Irrigation tip",
				Message:  tip,
				Priority: entities.PriorityLow,
				Category: "irrigation",
			})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recPriorityOrder[recs[i].Priority] > recPriorityOrder[recs[j].Priority]
	})
	return recs
}

func (e *Engine) randomPractice(activity, crop string) string {
	general, specific := e.BestPractices(activity, crop)
	pool := append(append([]string{}, general...), specific...)
	if len(pool) == 0 {
		return ""
	}
	return pool[rand.Intn(len(pool))]
}

type SearchResult struct {
	Kind  string  `json:"kind"` // crop|pest|practice|article
	Name  string  `json:"name"`
	Crop  string  `json:"crop,omitempty"`
	Score int     `json:"score"`
	Extra *string `json:"extra,omitempty"`
}

// SearchKnowledge scores every crop, pest, practice category and ingested
// article by the summed length of query terms found as substrings, and
// returns mixed results sorted by score descending.
func (e *Engine) SearchKnowledge(query string) []SearchResult {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(terms) == 0 {
		return nil
	}
	score := func(haystack string) int {
		h := strings.ToLower(haystack)
		total := 0
		for _, t := range terms {
			if strings.Contains(h, t) {
				total += len(t)
			}
		}
		return total
	}

	var out []SearchResult
	for name := range e.calendars {
		if s := score(name); s > 0 {
			out = append(out, SearchResult{Kind: "crop", Name: name, Score: s})
		}
	}
	for crop, records := range e.pests {
		for _, p := range records {
			if s := score(p.Name + " " + strings.Join(p.Symptoms, " ")); s > 0 {
				out = append(out, SearchResult{Kind: "pest", Name: p.Name, Crop: crop, Score: s})
			}
		}
	}
	for category := range e.practices {
		if s := score(category); s > 0 {
			out = append(out, SearchResult{Kind: "practice", Name: category, Score: s})
		}
	}
	if e.articles != nil {
		arts, err := e.articles.ListArticles()
		if err == nil {
			for _, a := range arts {
				if s := score(a.Title + " " + a.Tags); s > 0 {
					url := a.SourceURL
					out = append(out, SearchResult{Kind: "article", Name: a.Title, Score: s, Extra: &url})
				}
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
