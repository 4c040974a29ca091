// Package screen holds the three dashboard controllers. Each controller
// owns its list view state and mutates only its own store; cross-screen
// effects travel over the bus. No operation is retried and a failed call
// leaves the local collections untouched.
package screen

import (
	"errors"
	"sync"
)

// ErrOcupado rejects a submit or delete while another one is in flight.
var ErrOcupado = errors.New("operação em andamento")

// busyGuard is the double-submit guard shared by the controllers.
type busyGuard struct {
	mu   sync.Mutex
	busy bool
}

// acquire reports whether the caller may proceed; release must follow.
func (g *busyGuard) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return false
	}
	g.busy = true
	return true
}

func (g *busyGuard) release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
