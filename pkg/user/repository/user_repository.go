package repository

import "farmadvisor/entities"

type UserRepository interface {
	Create(u *entities.User) error
	Save(u *entities.User) error
	FindByID(id string) (*entities.User, error)
	// FindByIdentifier looks a user up by phone or email.
	FindByIdentifier(identifier string) (*entities.User, error)
	FindByLocation(location string) ([]entities.User, error)
	FindAll() ([]entities.User, error)
	Delete(id string) error
}
