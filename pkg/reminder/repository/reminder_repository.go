package repository

import (
	"time"

	"farmadvisor/entities"
)

type ReminderRepository interface {
	Create(r *entities.Reminder) error
	Save(r *entities.Reminder) error
	FindByID(id string) (*entities.Reminder, error)
	FindByUser(userID string) ([]entities.Reminder, error)
	// FindActive returns active reminders for a user ordered by next_trigger
	// ascending; empty userID means all users.
	FindActive(userID string) ([]entities.Reminder, error)
	// FindDue returns active reminders across all users whose next_trigger
	// is at or before now, ordered by next_trigger ascending.
	FindDue(now time.Time) ([]entities.Reminder, error)
	Delete(id string) error
}

type NotificationRepository interface {
	Create(n *entities.Notification) error
	Save(n *entities.Notification) error
	FindByID(id string) (*entities.Notification, error)
	FindByUser(userID string) ([]entities.Notification, error)
	// FindUnread returns unread notifications newest-first.
	FindUnread(userID string) ([]entities.Notification, error)
}
