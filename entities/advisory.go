package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"farmadvisor/pkg/apperr"
)

type AdvisoryType string

const (
	AdvisoryWeather    AdvisoryType = "weather"
	AdvisoryPest       AdvisoryType = "pest"
	AdvisoryIrrigation AdvisoryType = "irrigation"
	AdvisoryFertilizer AdvisoryType = "fertilizer"
	AdvisoryHarvest    AdvisoryType = "harvest"
	AdvisoryMarket     AdvisoryType = "market"
	AdvisoryScheme     AdvisoryType = "scheme"
	AdvisoryGeneral    AdvisoryType = "general"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type UrgencyLevel string

const (
	UrgencyImmediate UrgencyLevel = "immediate"
	UrgencyUrgent    UrgencyLevel = "urgent"
	UrgencyNormal    UrgencyLevel = "normal"
	UrgencyScheduled UrgencyLevel = "scheduled"
)

type AdvisoryStatus string

const (
	StatusActive    AdvisoryStatus = "active"
	StatusRead      AdvisoryStatus = "read"
	StatusDismissed AdvisoryStatus = "dismissed"
	StatusActedUpon AdvisoryStatus = "acted_upon"
)

type AdvisoryContent struct {
	Title           string   `json:"title"`
	Message         string   `json:"message"`
	Summary         string   `json:"summary"`
	ActionItems     []string `json:"action_items"`
	Recommendations []string `json:"recommendations"`
}

// AdvisoryContext is a snapshot of the triggering situation; never mutated
// after creation.
type AdvisoryContext struct {
	Crop     string         `json:"crop,omitempty"`
	Season   string         `json:"season,omitempty"`
	Location string         `json:"location,omitempty"`
	Weather  map[string]any `json:"weather,omitempty"`
}

type AdvisoryTriggers struct {
	Source     string         `json:"source"`
	Confidence float64        `json:"confidence"` // 0-100
	DataPoints map[string]any `json:"data_points,omitempty"`
	Thresholds map[string]any `json:"thresholds,omitempty"`
}

type AdvisoryTiming struct {
	CreatedAt      time.Time    `json:"created_at"`
	ValidUntil     time.Time    `json:"valid_until"`
	UrgencyLevel   UrgencyLevel `json:"urgency_level"`
	BestActionTime string       `json:"best_action_time,omitempty"`
}

type AdvisoryEngagement struct {
	Status      AdvisoryStatus `json:"status"`
	ReadAt      *time.Time     `json:"read_at,omitempty"`
	DismissedAt *time.Time     `json:"dismissed_at,omitempty"`
	ActedUponAt *time.Time     `json:"acted_upon_at,omitempty"`
	Feedback    string         `json:"feedback,omitempty"` // helpful|not_helpful|irrelevant
	UserNotes   string         `json:"user_notes,omitempty"`
}

type AdvisoryImpact struct {
	EstimatedBenefit string `json:"estimated_benefit,omitempty"`
	RiskLevel        string `json:"risk_level,omitempty"`
	CostImplication  string `json:"cost_implication,omitempty"`
	TimeRequired     string `json:"time_required,omitempty"`
	DifficultyLevel  string `json:"difficulty_level,omitempty"`
}

type Advisory struct {
	ID         string             `gorm:"primaryKey" json:"id"`
	UserID     string             `gorm:"index" json:"user_id"`
	Type       AdvisoryType       `json:"type"`
	Priority   Priority           `json:"priority"`
	Content    AdvisoryContent    `gorm:"serializer:json" json:"content"`
	Context    AdvisoryContext    `gorm:"serializer:json" json:"context"`
	Triggers   AdvisoryTriggers   `gorm:"serializer:json" json:"triggers"`
	Timing     AdvisoryTiming     `gorm:"serializer:json" json:"timing"`
	Engagement AdvisoryEngagement `gorm:"serializer:json" json:"engagement"`
	Impact     AdvisoryImpact     `gorm:"serializer:json" json:"impact"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// validityDays drives the default validity window per advisory type.
var validityDays = map[AdvisoryType]int{
	AdvisoryWeather:    3,
	AdvisoryPest:       7,
	AdvisoryIrrigation: 2,
	AdvisoryFertilizer: 5,
	AdvisoryHarvest:    10,
	AdvisoryMarket:     1,
	AdvisoryScheme:     30,
	AdvisoryGeneral:    7,
}

// ValidityDays returns the fixed validity window (in days) for a type.
func ValidityDays(t AdvisoryType) int {
	if d, ok := validityDays[t]; ok {
		return d
	}
	return 7
}

// UrgencyFor maps a priority onto the urgency level used at creation time.
func UrgencyFor(p Priority) UrgencyLevel {
	switch p {
	case PriorityCritical:
		return UrgencyImmediate
	case PriorityHigh:
		return UrgencyUrgent
	case PriorityMedium:
		return UrgencyNormal
	default:
		return UrgencyScheduled
	}
}

// NewAdvisory builds an advisory from input, applying defaults centrally:
// id, status active, urgency derived from priority, validUntil from the
// type table when unset. Validation is a separate pass (Validate).
func NewAdvisory(in Advisory) *Advisory {
	a := in
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Type == "" {
		a.Type = AdvisoryGeneral
	}
	if a.Priority == "" {
		a.Priority = PriorityMedium
	}
	now := time.Now()
	if a.Timing.CreatedAt.IsZero() {
		a.Timing.CreatedAt = now
	}
	if a.Timing.ValidUntil.IsZero() {
		a.Timing.ValidUntil = a.Timing.CreatedAt.AddDate(0, 0, ValidityDays(a.Type))
	}
	if a.Timing.UrgencyLevel == "" {
		a.Timing.UrgencyLevel = UrgencyFor(a.Priority)
	}
	if a.Engagement.Status == "" {
		a.Engagement.Status = StatusActive
	}
	if a.Triggers.Source == "" {
		a.Triggers.Source = "manual"
	}
	return &a
}

// Validate checks the constructed advisory. Construct-then-validate is a
// two-phase contract: NewAdvisory never fails, Validate reports everything.
func (a *Advisory) Validate() error {
	var missing []string
	if a.UserID == "" {
		missing = append(missing, "user_id")
	}
	if a.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(a.Content.Title) == "" {
		missing = append(missing, "content.title")
	}
	if strings.TrimSpace(a.Content.Message) == "" {
		missing = append(missing, "content.message")
	}
	if len(missing) > 0 {
		return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
	}
	if a.Triggers.Confidence < 0 || a.Triggers.Confidence > 100 {
		return apperr.Validation("triggers.confidence must be between 0 and 100")
	}
	return nil
}

func (a *Advisory) IsValid() bool { return a.Timing.ValidUntil.After(time.Now()) }

func (a *Advisory) IsUrgent() bool {
	return a.Timing.UrgencyLevel == UrgencyImmediate || a.Timing.UrgencyLevel == UrgencyUrgent
}

var priorityWeight = map[Priority]int{
	PriorityCritical: 4, PriorityHigh: 3, PriorityMedium: 2, PriorityLow: 1,
}

var urgencyWeight = map[UrgencyLevel]int{
	UrgencyImmediate: 4, UrgencyUrgent: 3, UrgencyNormal: 2, UrgencyScheduled: 1,
}

// PriorityScore orders listings: priority weight + urgency weight.
func (a *Advisory) PriorityScore() int {
	return priorityWeight[a.Priority] + urgencyWeight[a.Timing.UrgencyLevel]
}

// SetStatus applies a status transition and stamps the matching side field.
// Transitions are deliberately permissive: a dismissed advisory may still be
// marked acted_upon later.
func (a *Advisory) SetStatus(status AdvisoryStatus, notes string) {
	now := time.Now()
	a.Engagement.Status = status
	switch status {
	case StatusRead:
		a.Engagement.ReadAt = &now
	case StatusDismissed:
		a.Engagement.DismissedAt = &now
	case StatusActedUpon:
		a.Engagement.ActedUponAt = &now
	}
	if notes != "" {
		a.Engagement.UserNotes = notes
	}
}
