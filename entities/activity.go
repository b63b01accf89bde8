package entities

import "time"

type ActivityStatus string

const (
	ActivityPlanned    ActivityStatus = "planned"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
	ActivitySkipped    ActivityStatus = "skipped"
)

type ActivityIssue struct {
	Description string    `json:"description"`
	Severity    string    `json:"severity"` // low|medium|high
	ReportedAt  time.Time `json:"reported_at"`
	Resolved    bool      `json:"resolved"`
}

type ActivityAttachment struct {
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	AddedAt time.Time `json:"added_at"`
}

// Activity is a farm operation log entry (peer subsystem of advisories).
type Activity struct {
	ID          string               `gorm:"primaryKey" json:"id"`
	UserID      string               `gorm:"index" json:"user_id"`
	Type        string               `json:"type"` // sowing|irrigation|fertilizer|pesticide|harvest|other
	Crop        string               `json:"crop"`
	Area        float64              `json:"area"`
	Date        time.Time            `gorm:"index" json:"date"`
	Cost        float64              `json:"cost"`
	Status      ActivityStatus       `json:"status"`
	Notes       string               `json:"notes"`
	Issues      []ActivityIssue      `gorm:"serializer:json" json:"issues"`
	Attachments []ActivityAttachment `gorm:"serializer:json" json:"attachments"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
