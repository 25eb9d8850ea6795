package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

type registryEntry[W any] struct {
	wizard    W
	createdAt time.Time
}

// Registry keeps the wizards opened by clients, keyed by a random id
type Registry[W any] struct {
	items map[string]registryEntry[W]
	mu    sync.RWMutex
}

func NewRegistry[W any]() *Registry[W] {
	return &Registry[W]{items: make(map[string]registryEntry[W])}
}

func (r *Registry[W]) Add(create func(id string) W) (string, W) {
	id := uuid.NewString()
	w := create(id)

	r.mu.Lock()
	r.items[id] = registryEntry[W]{wizard: w, createdAt: time.Now()}
	r.mu.Unlock()

	return id, w
}

func (r *Registry[W]) Get(id string) (W, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	return e.wizard, ok
}

func (r *Registry[W]) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// IDs returns the ids in creation order
func (r *Registry[W]) IDs() []string {
	r.mu.RLock()
	type item struct {
		id        string
		createdAt time.Time
	}
	items := make([]item, 0, len(r.items))
	for id, e := range r.items {
		items = append(items, item{id, e.createdAt})
	}
	r.mu.RUnlock()

	slices.SortFunc(items, func(a, b item) bool {
		if a.createdAt.Equal(b.createdAt) {
			return a.id < b.id
		}
		return a.createdAt.Before(b.createdAt)
	})

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids
}

func (r *Registry[W]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
