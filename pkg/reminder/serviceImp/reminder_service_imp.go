package serviceImp

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmadvisor/entities"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/reminder/repository"
	"farmadvisor/pkg/reminder/service"
)

// Notifier pushes a fired notification to an external channel (SMS, push).
// Delivery is best effort; failures are logged and ignored.
type Notifier interface {
	Push(n *entities.Notification) error
}

type ReminderSvc struct {
	reminders     repository.ReminderRepository
	notifications repository.NotificationRepository
	notifier      Notifier
	interval      time.Duration
	now           func() time.Time
}

func New(rr repository.ReminderRepository, nr repository.NotificationRepository, notifier Notifier, interval time.Duration) *ReminderSvc {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &ReminderSvc{
		reminders:     rr,
		notifications: nr,
		notifier:      notifier,
		interval:      interval,
		now:           time.Now,
	}
}

var _ service.ReminderService = (*ReminderSvc)(nil)

// CalculateNextTrigger resolves the first occurrence of startDate at hhmm
// stepped by the frequency interval that lies after now. For "once" the
// start instant is returned verbatim even when it is already past; such a
// reminder is immediately due on the next sweep rather than rejected.
func CalculateNextTrigger(startDate time.Time, freq entities.Frequency, hhmm string, now time.Time) time.Time {
	hour, minute := parseHHMM(hhmm)
	at := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), hour, minute, 0, 0, startDate.Location())
	if freq == entities.FreqOnce {
		return at
	}
	interval, ok := entities.FrequencyDays[freq]
	if !ok || interval <= 0 {
		interval = 1
	}
	for !at.After(now) {
		at = at.AddDate(0, 0, interval)
	}
	return at
}

func parseHHMM(s string) (int, int) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 6, 0 // default 06:00
	}
	return t.Hour(), t.Minute()
}

func validFrequency(f entities.Frequency) bool {
	if f == entities.FreqOnce {
		return true
	}
	_, ok := entities.FrequencyDays[f]
	return ok
}

func (s *ReminderSvc) CreateReminder(in entities.Reminder) (*entities.Reminder, error) {
	if in.UserID == "" || in.Type == "" || strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("user_id, type and title are required")
	}
	if !validFrequency(in.Frequency) {
		return nil, apperr.Validation("unknown frequency: " + string(in.Frequency))
	}
	if in.StartDate.IsZero() {
		return nil, apperr.Validation("start_date is required")
	}
	rem := in
	rem.ID = uuid.NewString()
	if rem.Time == "" {
		rem.Time = "06:00"
	}
	rem.IsActive = true
	rem.NextTrigger = CalculateNextTrigger(rem.StartDate, rem.Frequency, rem.Time, s.now())
	if err := s.reminders.Create(&rem); err != nil {
		return nil, apperr.Internal("save reminder: " + err.Error())
	}
	return &rem, nil
}

func (s *ReminderSvc) UpdateReminder(id string, in entities.Reminder) (*entities.Reminder, error) {
	rem, err := s.reminders.FindByID(id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		rem.Title = in.Title
	}
	if in.Description != "" {
		rem.Description = in.Description
	}
	if in.Crop != "" {
		rem.Crop = in.Crop
	}
	if in.Area > 0 {
		rem.Area = in.Area
	}
	if !in.StartDate.IsZero() {
		rem.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		rem.EndDate = in.EndDate
	}
	if in.Frequency != "" {
		if !validFrequency(in.Frequency) {
			return nil, apperr.Validation("unknown frequency: " + string(in.Frequency))
		}
		rem.Frequency = in.Frequency
	}
	if in.Time != "" {
		rem.Time = in.Time
	}
	rem.NextTrigger = CalculateNextTrigger(rem.StartDate, rem.Frequency, rem.Time, s.now())
	if err := s.reminders.Save(rem); err != nil {
		return nil, apperr.Internal("save reminder: " + err.Error())
	}
	return rem, nil
}

func (s *ReminderSvc) DeleteReminder(id string) error {
	if _, err := s.reminders.FindByID(id); err != nil {
		return err
	}
	return s.reminders.Delete(id)
}

func (s *ReminderSvc) ToggleReminder(id string) (*entities.Reminder, error) {
	rem, err := s.reminders.FindByID(id)
	if err != nil {
		return nil, err
	}
	rem.IsActive = !rem.IsActive
	if rem.IsActive {
		rem.NextTrigger = CalculateNextTrigger(rem.StartDate, rem.Frequency, rem.Time, s.now())
	}
	if err := s.reminders.Save(rem); err != nil {
		return nil, apperr.Internal("save reminder: " + err.Error())
	}
	return rem, nil
}

func (s *ReminderSvc) GetByID(id string) (*entities.Reminder, error) {
	return s.reminders.FindByID(id)
}

func (s *ReminderSvc) ActiveReminders(userID string) ([]entities.Reminder, error) {
	return s.reminders.FindActive(userID)
}

func (s *ReminderSvc) UpcomingReminders(userID string, days int) ([]entities.Reminder, error) {
	if days < 1 {
		days = 7
	}
	active, err := s.reminders.FindActive(userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	horizon := now.AddDate(0, 0, days)
	var out []entities.Reminder
	for _, r := range active {
		if !r.NextTrigger.Before(now) && !r.NextTrigger.After(horizon) {
			out = append(out, r)
		}
	}
	return out, nil
}

// CreateCropReminders derives the standard reminder set from a crop record:
// a one-shot sowing reminder when planting is still ahead, plus weekly
// irrigation and pest scouting.
func (s *ReminderSvc) CreateCropReminders(userID string, crop entities.CropRecord) ([]entities.Reminder, error) {
	if crop.Name == "" {
		return nil, apperr.Validation("crop name is required")
	}
	now := s.now()
	var created []entities.Reminder

	if crop.PlantingDate != nil && crop.PlantingDate.After(now) {
		rem, err := s.CreateReminder(entities.Reminder{
			UserID:      userID,
			Type:        entities.ReminderSowing,
			Title:       "Sow " + crop.Name,
			Description: "Planting date for " + crop.Name + " is here.",
			Crop:        crop.Name,
			Area:        crop.Area,
			StartDate:   *crop.PlantingDate,
			Frequency:   entities.FreqOnce,
			Time:        "06:00",
		})
		if err != nil {
			return created, err
		}
		created = append(created, *rem)
	}

	irr, err := s.CreateReminder(entities.Reminder{
		UserID:      userID,
		Type:        entities.ReminderIrrigation,
		Title:       "Irrigate " + crop.Name,
		Description: "Weekly irrigation check for " + crop.Name + ".",
		Crop:        crop.Name,
		Area:        crop.Area,
		StartDate:   now,
		Frequency:   entities.FreqWeekly,
		Time:        "06:00",
	})
	if err != nil {
		return created, err
	}
	created = append(created, *irr)

	pest, err := s.CreateReminder(entities.Reminder{
		UserID:      userID,
		Type:        entities.ReminderPestCheck,
		Title:       "Scout " + crop.Name + " for pests",
		Description: "Weekly pest and disease scouting for " + crop.Name + ".",
		Crop:        crop.Name,
		Area:        crop.Area,
		StartDate:   now,
		Frequency:   entities.FreqWeekly,
		Time:        "07:00",
	})
	if err != nil {
		return created, err
	}
	created = append(created, *pest)
	return created, nil
}

var notificationMessages = map[entities.ReminderType]string{
	entities.ReminderIrrigation:     "Time to irrigate {crop}.",
	entities.ReminderFertilizer:     "Fertilizer application is due for {crop}.",
	entities.ReminderPestCheck:      "Scout {crop} for pests and diseases today.",
	entities.ReminderHarvest:        "Harvest window for {crop} — plan labour and transport.",
	entities.ReminderSowing:         "Sowing day for {crop}. Seeds and field ready?",
	entities.ReminderMarketCheck:    "Check today's market prices for {crop}.",
	entities.ReminderWeatherCheck:   "Review the weather forecast before field work.",
	entities.ReminderSchemeDeadline: "A scheme application deadline is approaching.",
	entities.ReminderSoilTest:       "Soil testing is due for your field.",
}

func notificationMessage(rem *entities.Reminder) string {
	msg, ok := notificationMessages[rem.Type]
	if !ok {
		msg = "Reminder: " + rem.Title
	}
	crop := rem.Crop
	if crop == "" {
		crop = "your crop"
	}
	return strings.ReplaceAll(msg, "{crop}", crop)
}

// CheckDueReminders scans active reminders whose next trigger has passed and
// fires each one. Runs on a single goroutine; next_trigger is advanced
// before the next sweep can observe the reminder, so nothing double-fires.
func (s *ReminderSvc) CheckDueReminders() (int, error) {
	now := s.now()
	due, err := s.reminders.FindDue(now)
	if err != nil {
		return 0, apperr.Internal(err.Error())
	}
	fired := 0
	for i := range due {
		if err := s.fire(&due[i], now); err != nil {
			log.Printf("[scheduler] fire %s: %v", due[i].ID, err)
			continue
		}
		fired++
	}
	return fired, nil
}

func (s *ReminderSvc) fire(rem *entities.Reminder, now time.Time) error {
	n := &entities.Notification{
		ID:         uuid.NewString(),
		ReminderID: rem.ID,
		UserID:     rem.UserID,
		Type:       rem.Type,
		Title:      rem.Title,
		Message:    notificationMessage(rem),
		Priority:   entities.NotificationPriority(rem.Type),
		CreatedAt:  now,
	}

	rem.LastTriggered = &now
	if rem.Frequency == entities.FreqOnce {
		// One-shot reminders deactivate instead of rescheduling.
		rem.IsActive = false
	} else {
		rem.NextTrigger = CalculateNextTrigger(now, rem.Frequency, rem.Time, now)
	}

	if err := s.reminders.Save(rem); err != nil {
		return err
	}
	if err := s.notifications.Create(n); err != nil {
		return err
	}
	if s.notifier != nil {
		if err := s.notifier.Push(n); err != nil {
			log.Printf("[scheduler] push notification %s: %v", n.ID, err)
		}
	}
	return nil
}

// Start sweeps once shortly after startup, then on the fixed cadence until
// the context is cancelled.
func (s *ReminderSvc) Start(ctx context.Context) {
	go func() {
		initial := time.NewTimer(5 * time.Second)
		defer initial.Stop()
		select {
		case <-ctx.Done():
			return
		case <-initial.C:
		}
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *ReminderSvc) sweep() {
	fired, err := s.CheckDueReminders()
	if err != nil {
		log.Printf("[scheduler] sweep: %v", err)
		return
	}
	if fired > 0 {
		log.Printf("[scheduler] fired %d reminder(s)", fired)
	}
}

func (s *ReminderSvc) UnreadNotifications(userID string) ([]entities.Notification, error) {
	return s.notifications.FindUnread(userID)
}

func (s *ReminderSvc) MarkNotificationRead(id string) (*entities.Notification, error) {
	n, err := s.notifications.FindByID(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	n.IsRead = true
	n.ReadAt = &now
	if err := s.notifications.Save(n); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return n, nil
}

func (s *ReminderSvc) MarkNotificationActioned(id string) (*entities.Notification, error) {
	n, err := s.notifications.FindByID(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	n.IsActioned = true
	n.ActionedAt = &now
	if !n.IsRead {
		n.IsRead = true
		n.ReadAt = &now
	}
	if err := s.notifications.Save(n); err != nil {
		return nil, apperr.Internal(err.Error())
	}
	return n, nil
}
