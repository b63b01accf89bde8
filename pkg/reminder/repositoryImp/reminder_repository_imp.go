package repositoryImp

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"farmadvisor/entities"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/reminder/repository"
)

type reminderRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ReminderRepository { return &reminderRepo{db} }

func (r *reminderRepo) Create(rem *entities.Reminder) error { return r.db.Create(rem).Error }

func (r *reminderRepo) Save(rem *entities.Reminder) error { return r.db.Save(rem).Error }

func (r *reminderRepo) FindByID(id string) (*entities.Reminder, error) {
	var rem entities.Reminder
	if err := r.db.Where("id = ?", id).First(&rem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("REMINDER", "reminder not found: "+id)
		}
		return nil, err
	}
	return &rem, nil
}

func (r *reminderRepo) FindByUser(userID string) ([]entities.Reminder, error) {
	var out []entities.Reminder
	if err := r.db.Where("user_id = ?", userID).Order("next_trigger ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reminderRepo) FindActive(userID string) ([]entities.Reminder, error) {
	q := r.db.Where("is_active = ?", true)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []entities.Reminder
	if err := q.Order("next_trigger ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reminderRepo) FindDue(now time.Time) ([]entities.Reminder, error) {
	var out []entities.Reminder
	if err := r.db.Where("is_active = ? AND next_trigger <= ?", true, now).
		Order("next_trigger ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reminderRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Reminder{}).Error
}

type notificationRepo struct{ db *gorm.DB }

func NewNotifications(db *gorm.DB) repository.NotificationRepository { return &notificationRepo{db} }

func (r *notificationRepo) Create(n *entities.Notification) error { return r.db.Create(n).Error }

func (r *notificationRepo) Save(n *entities.Notification) error { return r.db.Save(n).Error }

func (r *notificationRepo) FindByID(id string) (*entities.Notification, error) {
	var n entities.Notification
	if err := r.db.Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("NOTIFICATION", "notification not found: "+id)
		}
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) FindByUser(userID string) ([]entities.Notification, error) {
	var out []entities.Notification
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) FindUnread(userID string) ([]entities.Notification, error) {
	var out []entities.Notification
	if err := r.db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
