package serviceImp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmadvisor/database"
	"farmadvisor/entities"
	"farmadvisor/pkg/reminder/repository"
	"farmadvisor/pkg/reminder/repositoryImp"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestSvc(t *testing.T) (*ReminderSvc, *testClock, repository.ReminderRepository, repository.NotificationRepository) {
	t.Helper()
	db := database.OpenSQLite(":memory:")
	reminders := repositoryImp.New(db)
	notifications := repositoryImp.NewNotifications(db)
	svc := New(reminders, notifications, nil, time.Minute)
	clock := &testClock{t: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.now
	return svc, clock, reminders, notifications
}

func TestCalculateNextTrigger_OnceVerbatim(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	past := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got := CalculateNextTrigger(past, entities.FreqOnce, "07:30", now)
	// one-shot reminders keep their start instant even when it is already
	// past; the next sweep fires them instead of rejecting
	assert.Equal(t, time.Date(2025, 6, 1, 7, 30, 0, 0, time.UTC), got)

	future := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	got = CalculateNextTrigger(future, entities.FreqOnce, "06:00", now)
	assert.Equal(t, time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC), got)
}

func TestCalculateNextTrigger_SteppedFrequencies(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	start := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	weekly := CalculateNextTrigger(start, entities.FreqWeekly, "06:00", now)
	assert.Equal(t, time.Date(2025, 6, 17, 6, 0, 0, 0, time.UTC), weekly)

	daily := CalculateNextTrigger(start, entities.FreqDaily, "06:00", now)
	assert.Equal(t, time.Date(2025, 6, 11, 6, 0, 0, 0, time.UTC), daily)

	monthly := CalculateNextTrigger(start, entities.FreqMonthly, "06:00", now)
	assert.Equal(t, time.Date(2025, 7, 3, 6, 0, 0, 0, time.UTC), monthly)

	// a daily trigger later today stays today
	sameDay := CalculateNextTrigger(start, entities.FreqDaily, "18:00", now)
	assert.Equal(t, time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC), sameDay)

	// bad HH:MM falls back to 06:00
	fallback := CalculateNextTrigger(start, entities.FreqDaily, "late", now)
	assert.Equal(t, 6, fallback.Hour())
}

func TestCreateReminderDefaultsAndValidation(t *testing.T) {
	svc, clock, _, _ := newTestSvc(t)

	rem, err := svc.CreateReminder(entities.Reminder{
		UserID:    "u1",
		Type:      entities.ReminderIrrigation,
		Title:     "Water the field",
		StartDate: clock.t,
		Frequency: entities.FreqDaily,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rem.ID)
	assert.Equal(t, "06:00", rem.Time)
	assert.True(t, rem.IsActive)
	assert.True(t, rem.NextTrigger.After(clock.t))

	_, err = svc.CreateReminder(entities.Reminder{UserID: "u1", Type: entities.ReminderIrrigation})
	require.Error(t, err)

	_, err = svc.CreateReminder(entities.Reminder{
		UserID: "u1", Type: entities.ReminderIrrigation, Title: "t",
		StartDate: clock.t, Frequency: "fortnightly",
	})
	require.Error(t, err)
}

func TestRecurringReminderAdvances(t *testing.T) {
	svc, clock, reminders, notifications := newTestSvc(t)

	rem, err := svc.CreateReminder(entities.Reminder{
		UserID:    "u1",
		Type:      entities.ReminderIrrigation,
		Title:     "Irrigate rice",
		Crop:      "rice",
		StartDate: clock.t.AddDate(0, 0, -7),
		Frequency: entities.FreqWeekly,
		Time:      "06:00",
	})
	require.NoError(t, err)
	firstTrigger := rem.NextTrigger

	// jump the clock onto the trigger instant and sweep
	clock.t = firstTrigger
	fired, err := svc.CheckDueReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	reloaded, err := reminders.FindByID(rem.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)
	require.NotNil(t, reloaded.LastTriggered)
	assert.WithinDuration(t, firstTrigger, *reloaded.LastTriggered, time.Second)
	assert.WithinDuration(t, firstTrigger.AddDate(0, 0, 7), reloaded.NextTrigger, time.Second)

	notifs, err := notifications.FindUnread("u1")
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, entities.PriorityMedium, notifs[0].Priority)
	assert.Contains(t, notifs[0].Message, "rice")

	// nothing is due again until the next trigger
	fired, err = svc.CheckDueReminders()
	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestOnceReminderFiresAndDeactivates(t *testing.T) {
	svc, clock, reminders, notifications := newTestSvc(t)

	// start date already past: immediately due, fired once, then inactive
	rem, err := svc.CreateReminder(entities.Reminder{
		UserID:    "u1",
		Type:      entities.ReminderHarvest,
		Title:     "Harvest wheat",
		Crop:      "wheat",
		StartDate: clock.t.AddDate(0, 0, -2),
		Frequency: entities.FreqOnce,
	})
	require.NoError(t, err)
	assert.True(t, rem.NextTrigger.Before(clock.t))

	fired, err := svc.CheckDueReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	reloaded, err := reminders.FindByID(rem.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	notifs, err := notifications.FindUnread("u1")
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, entities.PriorityHigh, notifs[0].Priority)

	fired, err = svc.CheckDueReminders()
	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestToggleReminder(t *testing.T) {
	svc, clock, _, _ := newTestSvc(t)

	rem, err := svc.CreateReminder(entities.Reminder{
		UserID: "u1", Type: entities.ReminderPestCheck, Title: "Scout",
		StartDate: clock.t, Frequency: entities.FreqWeekly,
	})
	require.NoError(t, err)

	off, err := svc.ToggleReminder(rem.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	clock.t = clock.t.AddDate(0, 0, 30)
	on, err := svc.ToggleReminder(rem.ID)
	require.NoError(t, err)
	assert.True(t, on.IsActive)
	assert.True(t, on.NextTrigger.After(clock.t))
}

func TestUpcomingReminders(t *testing.T) {
	svc, clock, _, _ := newTestSvc(t)

	mk := func(title string, start time.Time, freq entities.Frequency) {
		_, err := svc.CreateReminder(entities.Reminder{
			UserID: "u1", Type: entities.ReminderFertilizer, Title: title,
			StartDate: start, Frequency: freq,
		})
		require.NoError(t, err)
	}
	mk("soon", clock.t.AddDate(0, 0, 2), entities.FreqOnce)
	mk("later", clock.t.AddDate(0, 0, 20), entities.FreqOnce)
	mk("monthly", clock.t, entities.FreqMonthly)

	out, err := svc.UpcomingReminders("u1", 7)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "soon", out[0].Title)

	out, err = svc.UpcomingReminders("u1", 0) // default 7-day window
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestCreateCropReminders(t *testing.T) {
	svc, clock, _, _ := newTestSvc(t)

	planting := clock.t.AddDate(0, 0, 10)
	created, err := svc.CreateCropReminders("u1", entities.CropRecord{
		Name: "cotton", Area: 2.5, PlantingDate: &planting,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	types := map[entities.ReminderType]bool{}
	for _, r := range created {
		types[r.Type] = true
		assert.Equal(t, "cotton", r.Crop)
	}
	assert.True(t, types[entities.ReminderSowing])
	assert.True(t, types[entities.ReminderIrrigation])
	assert.True(t, types[entities.ReminderPestCheck])

	// past planting date drops the sowing reminder
	past := clock.t.AddDate(0, 0, -30)
	created, err = svc.CreateCropReminders("u1", entities.CropRecord{Name: "rice", PlantingDate: &past})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	_, err = svc.CreateCropReminders("u1", entities.CropRecord{})
	require.Error(t, err)
}

func TestUpdateReminderRecomputesTrigger(t *testing.T) {
	svc, clock, _, _ := newTestSvc(t)

	rem, err := svc.CreateReminder(entities.Reminder{
		UserID: "u1", Type: entities.ReminderIrrigation, Title: "Water",
		StartDate: clock.t, Frequency: entities.FreqDaily, Time: "05:00",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateReminder(rem.ID, entities.Reminder{Frequency: entities.FreqWeekly, Time: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, entities.FreqWeekly, updated.Frequency)
	assert.Equal(t, 18, updated.NextTrigger.Hour())

	_, err = svc.UpdateReminder(rem.ID, entities.Reminder{Frequency: "hourly"})
	require.Error(t, err)

	_, err = svc.UpdateReminder("missing", entities.Reminder{})
	require.Error(t, err)
}

func TestNotificationReadAndActioned(t *testing.T) {
	svc, clock, _, notifications := newTestSvc(t)

	_, err := svc.CreateReminder(entities.Reminder{
		UserID: "u1", Type: entities.ReminderSchemeDeadline, Title: "PM-Kisan window",
		StartDate: clock.t.AddDate(0, 0, -1), Frequency: entities.FreqOnce,
	})
	require.NoError(t, err)
	_, err = svc.CheckDueReminders()
	require.NoError(t, err)

	unread, err := svc.UnreadNotifications("u1")
	require.NoError(t, err)
	require.Len(t, unread, 1)

	n, err := svc.MarkNotificationRead(unread[0].ID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	require.NotNil(t, n.ReadAt)

	unread, err = svc.UnreadNotifications("u1")
	require.NoError(t, err)
	assert.Empty(t, unread)

	n, err = svc.MarkNotificationActioned(n.ID)
	require.NoError(t, err)
	assert.True(t, n.IsActioned)
	require.NotNil(t, n.ActionedAt)

	// actioning an unread notification also marks it read
	stored, err := notifications.FindByID(n.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}

func TestNotificationMessageFallback(t *testing.T) {
	rem := &entities.Reminder{Type: "custom", Title: "Check the fence"}
	assert.Equal(t, "Reminder: Check the fence", notificationMessage(rem))

	rem = &entities.Reminder{Type: entities.ReminderIrrigation}
	assert.Contains(t, notificationMessage(rem), "your crop")
}
