package contract

import (
	"encoding/json"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
)

// Item is a single JSON record stored under a fixed key.
type Item[T any] struct {
	key []byte
}

// NewItem returns the record stored under key.
func NewItem[T any](key string) Item[T] {
	return Item[T]{key: []byte(key)}
}

// Key returns the store key of the record.
func (i Item[T]) Key() []byte {
	return i.key
}

// Save overwrites the record.
func (i Item[T]) Save(store storetypes.KVStore, v T) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return ErrEncoding.Wrapf("save %s: %s", i.key, err)
	}
	store.Set(i.key, bz)
	return nil
}

// Load returns the record or ErrNotFound.
func (i Item[T]) Load(store storetypes.KVStore) (T, error) {
	v, found, err := i.MayLoad(store)
	if err != nil {
		return v, err
	}
	if !found {
		return v, ErrNotFound.Wrapf("%s", i.key)
	}
	return v, nil
}

// MayLoad returns the record and whether it exists.
func (i Item[T]) MayLoad(store storetypes.KVStore) (T, bool, error) {
	var v T
	bz := store.Get(i.key)
	if bz == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(bz, &v); err != nil {
		return v, false, ErrEncoding.Wrapf("load %s: %s", i.key, err)
	}
	return v, true, nil
}

// Exists reports whether the record is set.
func (i Item[T]) Exists(store storetypes.KVStore) bool {
	return store.Has(i.key)
}

// Remove deletes the record.
func (i Item[T]) Remove(store storetypes.KVStore) {
	store.Delete(i.key)
}

// Map is a set of JSON records sharing a key prefix, ordered by key bytes.
type Map[T any] struct {
	prefix []byte
}

// NewMap returns the records stored under prefix.
func NewMap[T any](prefix string) Map[T] {
	return Map[T]{prefix: []byte(prefix)}
}

func (m Map[T]) store(store storetypes.KVStore) prefix.Store {
	return prefix.NewStore(store, m.prefix)
}

// Save overwrites the record under key.
func (m Map[T]) Save(store storetypes.KVStore, key []byte, v T) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return ErrEncoding.Wrapf("save %s%x: %s", m.prefix, key, err)
	}
	m.store(store).Set(key, bz)
	return nil
}

// MayLoad returns the record under key and whether it exists.
func (m Map[T]) MayLoad(store storetypes.KVStore, key []byte) (T, bool, error) {
	var v T
	bz := m.store(store).Get(key)
	if bz == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(bz, &v); err != nil {
		return v, false, ErrEncoding.Wrapf("load %s%x: %s", m.prefix, key, err)
	}
	return v, true, nil
}

// Has reports whether key is set.
func (m Map[T]) Has(store storetypes.KVStore, key []byte) bool {
	return m.store(store).Has(key)
}

// Remove deletes the record under key.
func (m Map[T]) Remove(store storetypes.KVStore, key []byte) {
	m.store(store).Delete(key)
}

// Range visits up to limit records with keys strictly after startAfter in
// ascending order. A nil startAfter starts at the first key and a limit of
// zero visits everything.
func (m Map[T]) Range(store storetypes.KVStore, startAfter []byte, limit int, fn func(key []byte, v T) error) error {
	var start []byte
	if startAfter != nil {
		start = append(append([]byte{}, startAfter...), 0x00)
	}

	it := m.store(store).Iterator(start, nil)
	defer it.Close()

	for n := 0; it.Valid(); it.Next() {
		if limit > 0 && n >= limit {
			break
		}
		var v T
		if err := json.Unmarshal(it.Value(), &v); err != nil {
			return ErrEncoding.Wrapf("load %s%x: %s", m.prefix, it.Key(), err)
		}
		if err := fn(it.Key(), v); err != nil {
			return err
		}
		n++
	}
	return nil
}
