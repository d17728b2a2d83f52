package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix     = "post:"
	CategoryKeyPrefix = "category:"
	UserKeyPrefix     = "user:"

	// Unique index prefixes, each mapping a value to the owning entity id
	PostSlugPrefix     = "slug:post:"
	CategorySlugPrefix = "slug:category:"
	UserEmailPrefix    = "email:"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrSlugTaken  = errors.New("slug already taken")
	ErrEmailTaken = errors.New("email already registered")
	ErrConflict   = errors.New("concurrent write conflict")
)

func entityKey(prefix, id string) []byte {
	return []byte(prefix + id)
}

// getEntity loads the JSON document stored at key into entity
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity stores entity as JSON at key
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// claimIndex points the unique index entry prefix+value at id. It fails with
// taken when the entry already belongs to another id.
func claimIndex(txn *badger.Txn, prefix, value, id string, taken error) error {
	key := entityKey(prefix, value)
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return txn.Set(key, []byte(id))
	case err != nil:
		return err
	}
	owner, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if string(owner) != id {
		return taken
	}
	return nil
}

// releaseIndex removes prefix+value if it still belongs to id
func releaseIndex(txn *badger.Txn, prefix, value, id string) error {
	key := entityKey(prefix, value)
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	owner, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	if string(owner) != id {
		return nil
	}
	return txn.Delete(key)
}

// lookupIndex resolves a unique index entry to the owning id
func lookupIndex(txn *badger.Txn, prefix, value string) (string, error) {
	item, err := txn.Get(entityKey(prefix, value))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	owner, err := item.ValueCopy(nil)
	if err != nil {
		return "", err
	}
	return string(owner), nil
}

// scanPrefix calls fn with the value of every key under prefix
func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
