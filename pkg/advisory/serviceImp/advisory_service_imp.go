package serviceImp

import (
	"sort"
	"strings"
	"time"

	"farmadvisor/entities"
	"farmadvisor/pkg/advisory/repository"
	"farmadvisor/pkg/advisory/service"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/knowledge"
)

// profileSource supplies the farm profile used for template interpolation
// and context snapshots. nil is allowed; content falls back to generic text.
type profileSource interface {
	FindByID(id string) (*entities.User, error)
}

type AdvisorySvc struct {
	repo     repository.AdvisoryRepository
	kb       *knowledge.Engine
	profiles profileSource
}

func New(repo repository.AdvisoryRepository, kb *knowledge.Engine, profiles profileSource) *AdvisorySvc {
	return &AdvisorySvc{repo: repo, kb: kb, profiles: profiles}
}

var _ service.AdvisoryService = (*AdvisorySvc)(nil)

func (s *AdvisorySvc) Create(in entities.Advisory) (*entities.Advisory, error) {
	a := entities.NewAdvisory(in)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(a); err != nil {
		return nil, apperr.Internal("save advisory: " + err.Error())
	}
	return a, nil
}

func (s *AdvisorySvc) GetByID(id string) (*entities.Advisory, error) {
	return s.repo.FindByID(id)
}

func (s *AdvisorySvc) UpdateStatus(id string, status entities.AdvisoryStatus, notes string) (*entities.Advisory, error) {
	switch status {
	case entities.StatusActive, entities.StatusRead, entities.StatusDismissed, entities.StatusActedUpon:
	default:
		return nil, apperr.Validation("unknown status: " + string(status))
	}
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	a.SetStatus(status, notes)
	if err := s.repo.Save(a); err != nil {
		return nil, apperr.Internal("save advisory: " + err.Error())
	}
	return a, nil
}

func (s *AdvisorySvc) AddFeedback(id, feedback, notes string) (*entities.Advisory, error) {
	switch feedback {
	case "helpful", "not_helpful", "irrelevant":
	default:
		return nil, apperr.Validation("feedback must be helpful, not_helpful or irrelevant")
	}
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	a.Engagement.Feedback = feedback
	if notes != "" {
		a.Engagement.UserNotes = notes
	}
	if err := s.repo.Save(a); err != nil {
		return nil, apperr.Internal("save advisory: " + err.Error())
	}
	return a, nil
}

func matchesFilters(a *entities.Advisory, f service.Filters) bool {
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	if f.Priority != "" && a.Priority != f.Priority {
		return false
	}
	if f.Status != "" && a.Engagement.Status != f.Status {
		return false
	}
	if f.Crop != "" && !strings.Contains(strings.ToLower(a.Context.Crop), strings.ToLower(f.Crop)) {
		return false
	}
	if f.ValidOnly && !a.IsValid() {
		return false
	}
	return true
}

// sortByPriority orders by priority score descending, createdAt descending
// on ties.
func sortByPriority(items []entities.Advisory) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].PriorityScore(), items[j].PriorityScore()
		if si != sj {
			return si > sj
		}
		return items[i].Timing.CreatedAt.After(items[j].Timing.CreatedAt)
	})
}

func (s *AdvisorySvc) List(userID string, page, limit int, f service.Filters) (*service.Page, error) {
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	var filtered []entities.Advisory
	for i := range all {
		if matchesFilters(&all[i], f) {
			filtered = append(filtered, all[i])
		}
	}
	sortByPriority(filtered)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(filtered)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return &service.Page{
		Items: filtered[start:end], Total: total,
		Page: page, Limit: limit, TotalPages: totalPages,
	}, nil
}

func (s *AdvisorySvc) Active(userID string) ([]entities.Advisory, error) {
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	var out []entities.Advisory
	for i := range all {
		if all[i].Engagement.Status == entities.StatusActive && all[i].IsValid() {
			out = append(out, all[i])
		}
	}
	sortByPriority(out)
	return out, nil
}

func (s *AdvisorySvc) Urgent(userID string) ([]entities.Advisory, error) {
	active, err := s.Active(userID)
	if err != nil {
		return nil, err
	}
	var out []entities.Advisory
	for i := range active {
		if active[i].IsUrgent() {
			out = append(out, active[i])
		}
	}
	return out, nil
}

func (s *AdvisorySvc) UserStats(userID string, days int) (*service.Stats, error) {
	if days < 1 {
		days = 30
	}
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	st := &service.Stats{
		ByStatus:   map[string]int{},
		ByType:     map[string]int{},
		ByPriority: map[string]int{},
		ByUrgency:  map[string]int{},
		Feedback:   map[string]int{},
	}
	engaged := 0
	for i := range all {
		a := &all[i]
		if a.Timing.CreatedAt.Before(cutoff) {
			continue
		}
		st.Total++
		st.ByStatus[string(a.Engagement.Status)]++
		st.ByType[string(a.Type)]++
		st.ByPriority[string(a.Priority)]++
		st.ByUrgency[string(a.Timing.UrgencyLevel)]++
		if a.Engagement.Feedback != "" {
			st.Feedback[a.Engagement.Feedback]++
		}
		if a.Engagement.Status == entities.StatusRead || a.Engagement.Status == entities.StatusActedUpon {
			engaged++
		}
	}
	if st.Total > 0 {
		st.EngagementRate = float64(engaged) / float64(st.Total) * 100
	}
	return st, nil
}

// CleanupExpired removes advisories that are past validity and were not
// acted upon, across all users. Acted-upon advisories are kept as history.
func (s *AdvisorySvc) CleanupExpired() (int, error) {
	all, err := s.repo.FindAll()
	if err != nil {
		return 0, apperr.Internal(err.Error())
	}
	var ids []string
	for i := range all {
		if !all[i].IsValid() && all[i].Engagement.Status != entities.StatusActedUpon {
			ids = append(ids, all[i].ID)
		}
	}
	if err := s.repo.DeleteByIDs(ids); err != nil {
		return 0, apperr.Internal(err.Error())
	}
	return len(ids), nil
}

func (s *AdvisorySvc) AdminEffectiveness(days int) (*service.Effectiveness, error) {
	if days < 1 {
		days = 30
	}
	all, err := s.repo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	eff := &service.Effectiveness{WindowDays: days}
	engaged, acted, helpful := 0, 0, 0
	confSum := 0.0
	type agg struct{ total, acted, helpful int }
	byType := map[entities.AdvisoryType]*agg{}
	for i := range all {
		a := &all[i]
		if a.Timing.CreatedAt.Before(cutoff) {
			continue
		}
		eff.Total++
		confSum += a.Triggers.Confidence
		g := byType[a.Type]
		if g == nil {
			g = &agg{}
			byType[a.Type] = g
		}
		g.total++
		switch a.Engagement.Status {
		case entities.StatusRead:
			engaged++
		case entities.StatusActedUpon:
			engaged++
			acted++
			g.acted++
		}
		if a.Engagement.Feedback == "helpful" {
			helpful++
			g.helpful++
		}
	}
	if eff.Total > 0 {
		eff.EngagementRate = float64(engaged) / float64(eff.Total) * 100
		eff.ActionRate = float64(acted) / float64(eff.Total) * 100
		eff.HelpfulRate = float64(helpful) / float64(eff.Total) * 100
		eff.AvgConfidence = confSum / float64(eff.Total)
	}
	for t, g := range byType {
		tp := service.TypePerformance{Type: t, Total: g.total}
		if g.total > 0 {
			tp.ActionRate = float64(g.acted) / float64(g.total) * 100
			tp.HelpfulRate = float64(g.helpful) / float64(g.total) * 100
		}
		eff.TopTypes = append(eff.TopTypes, tp)
	}
	sort.SliceStable(eff.TopTypes, func(i, j int) bool {
		return eff.TopTypes[i].ActionRate+eff.TopTypes[i].HelpfulRate >
			eff.TopTypes[j].ActionRate+eff.TopTypes[j].HelpfulRate
	})
	if len(eff.TopTypes) > 5 {
		eff.TopTypes = eff.TopTypes[:5]
	}
	return eff, nil
}

func (s *AdvisorySvc) BulkStatus(ids []string, status entities.AdvisoryStatus) (int, error) {
	updated := 0
	for _, id := range ids {
		if _, err := s.UpdateStatus(id, status, ""); err == nil {
			updated++
		}
	}
	return updated, nil
}

// Generate synthesizes and persists an advisory from a trigger name and
// contextual data. Every call that passes validation stores its result; the
// caller cannot generate without storing.
func (s *AdvisorySvc) Generate(userID, trigger string, data map[string]any) (*entities.Advisory, error) {
	if data == nil {
		data = map[string]any{}
	}
	var user *entities.User
	if s.profiles != nil {
		if u, err := s.profiles.FindByID(userID); err == nil {
			user = u
		}
	}

	now := time.Now()
	atype := classifyTrigger(trigger)
	priority := priorityForScore(urgencyScore(trigger, data))
	content := renderContent(trigger, data, user)

	ctx := entities.AdvisoryContext{
		Crop:   strVal(data["crop"]),
		Season: string(s.kb.CurrentSeason(now)),
	}
	if user != nil {
		ctx.Location = user.Location
	}
	if w, ok := data["weather"].(map[string]any); ok {
		ctx.Weather = w
	}

	a := entities.NewAdvisory(entities.Advisory{
		UserID:   userID,
		Type:     atype,
		Priority: priority,
		Content:  content,
		Context:  ctx,
		Triggers: entities.AdvisoryTriggers{
			Source:     trigger,
			Confidence: confidenceFrom(data),
			DataPoints: data,
		},
		Timing: entities.AdvisoryTiming{
			CreatedAt:  now,
			ValidUntil: validityFrom(now, trigger),
		},
		Impact: impactDefaults[atype],
	})
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(a); err != nil {
		return nil, apperr.Internal("save advisory: " + err.Error())
	}
	return a, nil
}

func (s *AdvisorySvc) FromTemplate(userID, templateType string, data map[string]any) (*entities.Advisory, error) {
	tpl, ok := namedTemplates[strings.ToLower(templateType)]
	if !ok {
		return nil, apperr.NotFound("TEMPLATE", "unknown advisory template: "+templateType)
	}
	if data == nil {
		data = map[string]any{}
	}
	var user *entities.User
	if s.profiles != nil {
		if u, err := s.profiles.FindByID(userID); err == nil {
			user = u
		}
	}
	// Template advisories take the per-type validity default.
	a := entities.NewAdvisory(entities.Advisory{
		UserID:   userID,
		Type:     tpl.atype,
		Priority: tpl.priority,
		Content:  renderContent(tpl.trigger, data, user),
		Context: entities.AdvisoryContext{
			Crop:   strVal(data["crop"]),
			Season: string(s.kb.CurrentSeason(time.Now())),
		},
		Triggers: entities.AdvisoryTriggers{
			Source:     "template:" + templateType,
			Confidence: confidenceFrom(data),
			DataPoints: data,
		},
		Impact: impactDefaults[tpl.atype],
	})
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(a); err != nil {
		return nil, apperr.Internal("save advisory: " + err.Error())
	}
	return a, nil
}

// ActionPlanFor spreads the advisory's action items across its validity
// window as dated steps.
func (s *AdvisorySvc) ActionPlanFor(id string) (*service.ActionPlan, error) {
	a, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	plan := &service.ActionPlan{
		AdvisoryID: a.ID,
		Title:      a.Content.Title,
		Priority:   a.Priority,
		ValidUntil: a.Timing.ValidUntil,
	}
	n := len(a.Content.ActionItems)
	if n == 0 {
		return plan, nil
	}
	window := a.Timing.ValidUntil.Sub(a.Timing.CreatedAt)
	for i, item := range a.Content.ActionItems {
		due := a.Timing.CreatedAt.Add(window * time.Duration(i+1) / time.Duration(n))
		plan.Steps = append(plan.Steps, service.ActionStep{Step: i + 1, Action: item, DueBy: due})
	}
	return plan, nil
}

func (s *AdvisorySvc) OfflineExport(userID string) (*service.Export, error) {
	all, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return &service.Export{UserID: userID, GeneratedAt: time.Now(), Advisories: all}, nil
}
