package repositories

import "catalog/internal/models"

// UserRepository is the account store behind registration, login and the
// write-route guard. Lookups that match nothing wrap ErrRecordNotFound.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByID resolves the user_id claim of a bearer token, so tokens of
	// deleted accounts stop working before they expire.
	GetByID(id string) (*models.User, error)
}
