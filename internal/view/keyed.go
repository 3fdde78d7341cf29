package view

import (
	"sync"

	"studytrack/internal/models"
)

// Keyed holds per-course view state. Entries are removed with Delete when their course goes away.
type Keyed[V any] struct {
	lock   sync.RWMutex
	values map[models.ID]V
}

func NewKeyed[V any]() *Keyed[V] {
	return &Keyed[V]{values: make(map[models.ID]V)}
}

// Get returns the value for id, or the zero value if none is set.
func (k *Keyed[V]) Get(id models.ID) (V, bool) {
	k.lock.RLock()
	defer k.lock.RUnlock()
	v, ok := k.values[id]
	return v, ok
}

func (k *Keyed[V]) Set(id models.ID, v V) {
	k.lock.Lock()
	defer k.lock.Unlock()
	k.values[id] = v
}

// Update replaces the value for id with fn applied to the current one.
func (k *Keyed[V]) Update(id models.ID, fn func(V) V) V {
	k.lock.Lock()
	defer k.lock.Unlock()
	v := fn(k.values[id])
	k.values[id] = v
	return v
}

// Delete removes the entry for id. Deleting a missing key is a no-op.
func (k *Keyed[V]) Delete(id models.ID) {
	k.lock.Lock()
	defer k.lock.Unlock()
	delete(k.values, id)
}

func (k *Keyed[V]) Has(id models.ID) bool {
	_, ok := k.Get(id)
	return ok
}

func (k *Keyed[V]) Len() int {
	k.lock.RLock()
	defer k.lock.RUnlock()
	return len(k.values)
}
