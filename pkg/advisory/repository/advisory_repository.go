package repository

import "farmadvisor/entities"

type AdvisoryRepository interface {
	Create(a *entities.Advisory) error
	Save(a *entities.Advisory) error
	FindByID(id string) (*entities.Advisory, error)
	// FindByUser returns a user's advisories newest-first (created_at desc).
	FindByUser(userID string) ([]entities.Advisory, error)
	FindAll() ([]entities.Advisory, error)
	DeleteByIDs(ids []string) error
}
