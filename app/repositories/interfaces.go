package repositories

import "inkwell/app/models"

// PostRepository defines the interface for post aggregate persistence. A post
// and its comments are always read and written as one document.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	List(filter PostFilter, limit, offset int) ([]*models.Post, int, error)
	Update(post *models.Post) error
	Delete(id string) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id string) (*models.Category, error)
	List() ([]*models.Category, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}
