package repositories

import (
	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// storedUser is the persisted form of a user. It keeps the password hash
// that models.User hides from JSON.
type storedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func (s *storedUser) toModel() *models.User {
	u := s.User
	u.PasswordHash = s.PasswordHash
	return &u
}

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	store *Store
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(store *Store) *BadgerUserRepository {
	return &BadgerUserRepository{store: store}
}

// Create stores a user and claims its email, failing with ErrEmailTaken on
// a duplicate
func (r *BadgerUserRepository) Create(user *models.User) error {
	return r.store.update(func(txn *badger.Txn) error {
		if err := claimIndex(txn, UserEmailPrefix, user.Email, user.ID, ErrEmailTaken); err != nil {
			return err
		}
		record := storedUser{User: *user, PasswordHash: user.PasswordHash}
		return setEntity(txn, entityKey(UserKeyPrefix, user.ID), &record)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id string) (*models.User, error) {
	var record storedUser
	err := r.store.view(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, id), &record)
	})
	if err != nil {
		return nil, err
	}
	return record.toModel(), nil
}

// GetByEmail retrieves a user through the email index
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	var record storedUser
	err := r.store.view(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, UserEmailPrefix, models.NormalizeEmail(email))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(UserKeyPrefix, id), &record)
	})
	if err != nil {
		return nil, err
	}
	return record.toModel(), nil
}
