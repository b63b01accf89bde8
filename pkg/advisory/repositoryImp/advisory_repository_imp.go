package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"farmadvisor/entities"
	"farmadvisor/pkg/advisory/repository"
	"farmadvisor/pkg/apperr"
)

type advisoryRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AdvisoryRepository { return &advisoryRepo{db} }

func (r *advisoryRepo) Create(a *entities.Advisory) error { return r.db.Create(a).Error }

func (r *advisoryRepo) Save(a *entities.Advisory) error { return r.db.Save(a).Error }

func (r *advisoryRepo) FindByID(id string) (*entities.Advisory, error) {
	var a entities.Advisory
	if err := r.db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ADVISORY", "advisory not found: "+id)
		}
		return nil, err
	}
	return &a, nil
}

func (r *advisoryRepo) FindByUser(userID string) ([]entities.Advisory, error) {
	var out []entities.Advisory
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *advisoryRepo) FindAll() ([]entities.Advisory, error) {
	var out []entities.Advisory
	if err := r.db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *advisoryRepo) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&entities.Advisory{}).Error
}
