package store

import (
	"sync"

	"github.com/dveiculos/backoffice/internal/models"
)

// Sales is the in-memory sale collection.
type Sales struct {
	mu    sync.RWMutex
	items []models.Sale
}

// NewSales creates an empty sale store.
func NewSales() *Sales {
	return &Sales{}
}

// ReplaceAll swaps the whole collection after a fresh fetch.
func (s *Sales) ReplaceAll(items []models.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]models.Sale, len(items))
	copy(s.items, items)
}

// All returns a copy of the collection.
func (s *Sales) All() []models.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Sale, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the sale with the given id.
func (s *Sales) Get(id int64) (models.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.items {
		if v.ID == id {
			return v, true
		}
	}
	return models.Sale{}, false
}

// Upsert replaces the sale with the same id or appends it.
func (s *Sales) Upsert(sale models.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == sale.ID {
			s.items[i] = sale
			return
		}
	}
	s.items = append(s.items, sale)
}

// Remove deletes the sale with the given id, if present.
func (s *Sales) Remove(id int64) {
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
func (s *Sales) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
