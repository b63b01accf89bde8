package repository

import "farmadvisor/entities"

type ActivityRepository interface {
	Create(a *entities.Activity) error
	Save(a *entities.Activity) error
	FindByID(id string) (*entities.Activity, error)
	// FindByUser returns a user's activities ordered by date descending.
	FindByUser(userID string) ([]entities.Activity, error)
	Delete(id string) error
}
