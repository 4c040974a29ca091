package store

import (
	"sync"

	"github.com/dveiculos/backoffice/internal/models"
)

// Clients is the in-memory client collection.
type Clients struct {
	mu    sync.RWMutex
	items []models.Client
}

// NewClients creates an empty client store.
func NewClients() *Clients {
	return &Clients{}
}

// ReplaceAll swaps the whole collection after a fresh fetch.
func (s *Clients) ReplaceAll(items []models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]models.Client, len(items))
	copy(s.items, items)
}

// All returns a copy of the collection.
func (s *Clients) All() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Client, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the client with the given id.
func (s *Clients) Get(id int64) (models.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.items {
		if c.ID == id {
			return c, true
		}
	}
	return models.Client{}, false
}

// Upsert replaces the client with the same id or appends it.
func (s *Clients) Upsert(c models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == c.ID {
			s.items[i] = c
			return
		}
	}
	s.items = append(s.items, c)
}

// Remove deletes the client with the given id, if present.
func (s *Clients) Remove(id int64) {
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
func (s *Clients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
