package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"farmadvisor/entities"
	"farmadvisor/pkg/activity/repository"
	"farmadvisor/pkg/apperr"
)

type activityRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ActivityRepository { return &activityRepo{db} }

func (r *activityRepo) Create(a *entities.Activity) error { return r.db.Create(a).Error }

func (r *activityRepo) Save(a *entities.Activity) error { return r.db.Save(a).Error }

func (r *activityRepo) FindByID(id string) (*entities.Activity, error) {
	var a entities.Activity
	if err := r.db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ACTIVITY", "activity not found: "+id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *activityRepo) FindByUser(userID string) ([]entities.Activity, error) {
	var out []entities.Activity
	if err := r.db.Where("user_id = ?", userID).Order("date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Activity{}).Error
}
