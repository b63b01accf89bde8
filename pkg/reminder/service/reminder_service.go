package service

import (
	"context"

	"farmadvisor/entities"
)

type ReminderService interface {
	CreateReminder(in entities.Reminder) (*entities.Reminder, error)
	UpdateReminder(id string, in entities.Reminder) (*entities.Reminder, error)
	DeleteReminder(id string) error
	ToggleReminder(id string) (*entities.Reminder, error)
	GetByID(id string) (*entities.Reminder, error)
	ActiveReminders(userID string) ([]entities.Reminder, error)
	UpcomingReminders(userID string, days int) ([]entities.Reminder, error)
	CreateCropReminders(userID string, crop entities.CropRecord) ([]entities.Reminder, error)

	// CheckDueReminders fires every active reminder whose next trigger has
	// passed and returns how many fired.
	CheckDueReminders() (int, error)
	// Start runs the periodic sweep until ctx is cancelled.
	Start(ctx context.Context)

	UnreadNotifications(userID string) ([]entities.Notification, error)
	MarkNotificationRead(id string) (*entities.Notification, error)
	MarkNotificationActioned(id string) (*entities.Notification, error)
}
