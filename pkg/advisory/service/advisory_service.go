package service

import (
	"time"

	"farmadvisor/entities"
)

type Filters struct {
	Type      entities.AdvisoryType
	Priority  entities.Priority
	Status    entities.AdvisoryStatus
	Crop      string // substring match on context.crop
	ValidOnly bool
}

type Page struct {
	Items      []entities.Advisory `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

type Stats struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByType         map[string]int `json:"by_type"`
	ByPriority     map[string]int `json:"by_priority"`
	ByUrgency      map[string]int `json:"by_urgency"`
	Feedback       map[string]int `json:"feedback"`
	EngagementRate float64        `json:"engagement_rate"` // (read+acted)/total*100
}

type TypePerformance struct {
	Type        entities.AdvisoryType `json:"type"`
	Total       int                   `json:"total"`
	ActionRate  float64               `json:"action_rate"`
	HelpfulRate float64               `json:"helpful_rate"`
}

type Effectiveness struct {
	WindowDays     int               `json:"window_days"`
	Total          int               `json:"total"`
	EngagementRate float64           `json:"engagement_rate"`
	ActionRate     float64           `json:"action_rate"`
	HelpfulRate    float64           `json:"helpful_rate"`
	AvgConfidence  float64           `json:"avg_confidence"`
	TopTypes       []TypePerformance `json:"top_types"`
}

type ActionStep struct {
	Step    int       `json:"step"`
	Action  string    `json:"action"`
	DueBy   time.Time `json:"due_by"`
	Done    bool      `json:"done"`
}

type ActionPlan struct {
	AdvisoryID string       `json:"advisory_id"`
	Title      string       `json:"title"`
	Priority   entities.Priority `json:"priority"`
	ValidUntil time.Time    `json:"valid_until"`
	Steps      []ActionStep `json:"steps"`
}

type Export struct {
	UserID      string              `json:"user_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Advisories  []entities.Advisory `json:"advisories"`
}

type AdvisoryService interface {
	Create(in entities.Advisory) (*entities.Advisory, error)
	GetByID(id string) (*entities.Advisory, error)
	UpdateStatus(id string, status entities.AdvisoryStatus, notes string) (*entities.Advisory, error)
	AddFeedback(id, feedback, notes string) (*entities.Advisory, error)
	List(userID string, page, limit int, f Filters) (*Page, error)
	Active(userID string) ([]entities.Advisory, error)
	Urgent(userID string) ([]entities.Advisory, error)
	UserStats(userID string, days int) (*Stats, error)
	CleanupExpired() (int, error)
	AdminEffectiveness(days int) (*Effectiveness, error)
	BulkStatus(ids []string, status entities.AdvisoryStatus) (int, error)
	Generate(userID, trigger string, data map[string]any) (*entities.Advisory, error)
	FromTemplate(userID, templateType string, data map[string]any) (*entities.Advisory, error)
	ActionPlanFor(id string) (*ActionPlan, error)
	OfflineExport(userID string) (*Export, error)
}
