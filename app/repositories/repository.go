package repositories

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger database backing every repository. It is created
// once at startup and closed on shutdown.
type Store struct {
	db       *badger.DB
	path     string
	inMemory bool
}

// NewStore opens the database at path. An empty path opens an in-memory
// database, which is what tests use. logger may be nil to silence badger.
func NewStore(path string, logger badger.Logger) (*Store, error) {
	inMemory := path == ""
	opts := badger.DefaultOptions(path).
		WithLogger(logger).
		WithNumVersionsToKeep(1)
	if inMemory {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Store{db: db, path: path, inMemory: inMemory}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path is the on-disk location, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Clear drops every key in the store.
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Backup writes a full backup of the store to w.
func (s *Store) Backup(w io.Writer) error {
	if _, err := s.db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Load restores a backup produced by Backup.
func (s *Store) Load(r io.Reader) error {
	if err := s.db.Load(r, 16); err != nil {
		return fmt.Errorf("load backup: %w", err)
	}
	return nil
}

// Posts returns the post repository backed by this store.
func (s *Store) Posts() *BadgerPostRepository {
	return NewBadgerPostRepository(s)
}

// Categories returns the category repository backed by this store.
func (s *Store) Categories() *BadgerCategoryRepository {
	return NewBadgerCategoryRepository(s)
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *BadgerUserRepository {
	return NewBadgerUserRepository(s)
}

// update runs fn in a read-write transaction. A commit conflict with another
// writer is reported as ErrConflict.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	err := s.db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (s *Store) view(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// Ping reports whether the store is still open.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	return nil
}
