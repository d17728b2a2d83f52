package repositories

import (
	"fmt"
	"sort"
	"strings"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCategoryRepository implements CategoryRepository using BadgerDB
type BadgerCategoryRepository struct {
	store *Store
}

// NewBadgerCategoryRepository creates a new BadgerCategoryRepository
func NewBadgerCategoryRepository(store *Store) *BadgerCategoryRepository {
	return &BadgerCategoryRepository{store: store}
}

// Create stores a category, failing with ErrSlugTaken on a duplicate slug
func (r *BadgerCategoryRepository) Create(category *models.Category) error {
	return r.store.update(func(txn *badger.Txn) error {
		if err := claimIndex(txn, CategorySlugPrefix, category.Slug, category.ID, ErrSlugTaken); err != nil {
			return err
		}
		return setEntity(txn, entityKey(CategoryKeyPrefix, category.ID), category)
	})
}

// GetByID retrieves a category by ID
func (r *BadgerCategoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	err := r.store.view(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(CategoryKeyPrefix, id), &category)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns every category ordered by name
func (r *BadgerCategoryRepository) List() ([]*models.Category, error) {
	categories := []*models.Category{}
	err := r.store.view(func(txn *badger.Txn) error {
		return scanPrefix(txn, CategoryKeyPrefix, func(val []byte) error {
			var category models.Category
			if err := unmarshalEntity(val, &category); err != nil {
				return fmt.Errorf("failed to unmarshal category: %w", err)
			}
			categories = append(categories, &category)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	SortCategoriesByName(categories)
	return categories, nil
}

// SortCategoriesByName orders categories by name, ignoring case.
func SortCategoriesByName(categories []*models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
}
