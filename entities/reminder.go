package entities

import "time"

type ReminderType string

const (
	ReminderIrrigation     ReminderType = "irrigation"
	ReminderFertilizer     ReminderType = "fertilizer"
	ReminderPestCheck      ReminderType = "pest_check"
	ReminderHarvest        ReminderType = "harvest"
	ReminderSowing         ReminderType = "sowing"
	ReminderMarketCheck    ReminderType = "market_check"
	ReminderWeatherCheck   ReminderType = "weather_check"
	ReminderSchemeDeadline ReminderType = "scheme_deadline"
	ReminderSoilTest       ReminderType = "soil_test"
)

type Frequency string

const (
	FreqOnce     Frequency = "once"
	FreqDaily    Frequency = "daily"
	FreqWeekly   Frequency = "weekly"
	FreqBiweekly Frequency = "biweekly"
	FreqMonthly  Frequency = "monthly"
	FreqSeasonal Frequency = "seasonal"
	FreqYearly   Frequency = "yearly"
)

// FrequencyDays maps each recurring frequency to its fixed day interval.
// FreqOnce has no interval and is handled separately.
var FrequencyDays = map[Frequency]int{
	FreqDaily:    1,
	FreqWeekly:   7,
	FreqBiweekly: 14,
	FreqMonthly:  30,
	FreqSeasonal: 90,
	FreqYearly:   365,
}

type Reminder struct {
	ID            string       `gorm:"primaryKey" json:"id"`
	UserID        string       `gorm:"index" json:"user_id"`
	Type          ReminderType `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Crop          string       `json:"crop"`
	Area          float64      `json:"area"`
	StartDate     time.Time    `json:"start_date"`
	EndDate       *time.Time   `json:"end_date,omitempty"`
	Frequency     Frequency    `json:"frequency"`
	Time          string       `json:"time"` // HH:MM
	IsActive      bool         `json:"is_active"`
	LastTriggered *time.Time   `json:"last_triggered,omitempty"`
	NextTrigger   time.Time    `gorm:"index" json:"next_trigger"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NotificationPriority returns the fixed priority a fired reminder's
// notification carries, by reminder type.
func NotificationPriority(t ReminderType) Priority {
	switch t {
	case ReminderHarvest, ReminderSchemeDeadline:
		return PriorityHigh
	case ReminderPestCheck, ReminderIrrigation, ReminderFertilizer, ReminderSowing:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

type Notification struct {
	ID         string       `gorm:"primaryKey" json:"id"`
	ReminderID string       `gorm:"index" json:"reminder_id"`
	UserID     string       `gorm:"index" json:"user_id"`
	Type       ReminderType `json:"type"`
	Title      string       `json:"title"`
	Message    string       `json:"message"`
	Priority   Priority     `json:"priority"`
	IsRead     bool         `json:"is_read"`
	IsActioned bool         `json:"is_actioned"`
	ReadAt     *time.Time   `json:"read_at,omitempty"`
	ActionedAt *time.Time   `json:"actioned_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
