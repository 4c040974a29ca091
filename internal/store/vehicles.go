// Package store holds the in-memory mirrors of the backend collections.
// Each store is loaded by a full-collection fetch and patched in place on
// successful mutations; nothing here survives the process.
package store

import (
	"sync"

	"github.com/dveiculos/backoffice/internal/models"
)

// Vehicles is the in-memory vehicle collection.
type Vehicles struct {
	mu    sync.RWMutex
	items []models.Vehicle
}

// NewVehicles creates an empty vehicle store.
func NewVehicles() *Vehicles {
	return &Vehicles{}
}

// ReplaceAll swaps the whole collection after a fresh fetch.
func (s *Vehicles) ReplaceAll(items []models.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]models.Vehicle, len(items))
	copy(s.items, items)
}

// All returns a copy of the collection. Projections work on copies so
// derived views never mutate source state.
func (s *Vehicles) All() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Vehicle, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the vehicle with the given id.
func (s *Vehicles) Get(id int64) (models.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.items {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// Upsert replaces the vehicle with the same id or appends it.
func (s *Vehicles) Upsert(v models.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == v.ID {
			s.items[i] = v
			return
		}
	}
	s.items = append(s.items, v)
}

// Remove deletes the vehicle with the given id, if present.
func (s *Vehicles) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Len reports the collection size.
func (s *Vehicles) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
