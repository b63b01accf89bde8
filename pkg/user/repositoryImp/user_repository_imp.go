package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"farmadvisor/entities"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/user/repository"
)

type userRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.UserRepository { return &userRepo{db} }

func (r *userRepo) Create(u *entities.User) error { return r.db.Create(u).Error }

func (r *userRepo) Save(u *entities.User) error { return r.db.Save(u).Error }

func (r *userRepo) FindByID(id string) (*entities.User, error) {
	var u entities.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("USER", "user not found: "+id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByIdentifier(identifier string) (*entities.User, error) {
	var u entities.User
	if err := r.db.Where("phone = ? OR email = ?", identifier, identifier).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("USER", "no user with identifier: "+identifier)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByLocation(location string) ([]entities.User, error) {
	var out []entities.User
	if err := r.db.Where("location LIKE ? OR state LIKE ?", "%"+location+"%", "%"+location+"%").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) FindAll() ([]entities.User, error) {
	var out []entities.User
	if err := r.db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.User{}).Error
}
