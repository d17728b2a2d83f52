package repositories

import (
	"fmt"

	"inkwell/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB. Each post is
// one JSON document; its slug is claimed in a unique index in the same
// transaction.
type BadgerPostRepository struct {
	store *Store
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(store *Store) *BadgerPostRepository {
	return &BadgerPostRepository{store: store}
}

// Create stores a new post and claims its slug
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.store.update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, post.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("post %s already exists", post.ID)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := claimIndex(txn, PostSlugPrefix, post.Slug, post.ID, ErrSlugTaken); err != nil {
			return err
		}
		return setEntity(txn, key, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.store.view(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post through the slug index
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.store.view(func(txn *badger.Txn) error {
		id, err := lookupIndex(txn, PostSlugPrefix, slug)
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of the posts matching filter, newest first, and the
// total number of matches
func (r *BadgerPostRepository) List(filter PostFilter, limit, offset int) ([]*models.Post, int, error) {
	var posts []*models.Post
	err := r.store.view(func(txn *badger.Txn) error {
		return scanPrefix(txn, PostKeyPrefix, func(val []byte) error {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if filter.Match(&post) {
				posts = append(posts, &post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}

	SortNewestFirst(posts)
	return Paginate(posts, limit, offset), len(posts), nil
}

// Update replaces an existing post. When the slug changed the new one is
// claimed and the old one released.
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.store.update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, post.ID)

		var existing models.Post
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}

		if existing.Slug != post.Slug {
			if err := claimIndex(txn, PostSlugPrefix, post.Slug, post.ID, ErrSlugTaken); err != nil {
				return err
			}
			if err := releaseIndex(txn, PostSlugPrefix, existing.Slug, post.ID); err != nil {
				return err
			}
		}
		return setEntity(txn, key, post)
	})
}

// Delete removes a post, its embedded comments and its slug claim
func (r *BadgerPostRepository) Delete(id string) error {
	return r.store.update(func(txn *badger.Txn) error {
		key := entityKey(PostKeyPrefix, id)

		var existing models.Post
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}

		if err := releaseIndex(txn, PostSlugPrefix, existing.Slug, id); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
