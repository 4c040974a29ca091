// Package state tracks each vehicle's sale status as a small state machine.
// The fsm mirrors the derivation rule in process: a vehicle already Vendido
// cannot take another sale, and deleting its sale releases it.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/dveiculos/backoffice/internal/models"
)

// Transition events
const (
	EventRegistrarVenda = "registrar_venda"
	EventCancelarVenda  = "cancelar_venda"
)

// Status is a vehicle's current sale status.
type Status struct {
	VehicleID int64     `json:"vehicleId"`
	Current   string    `json:"status"`
	Since     time.Time `json:"since"`
}

// Machine is the per-vehicle status machine.
type Machine struct {
	mu        sync.RWMutex
	vehicleID int64
	fsm       *fsm.FSM
	since     time.Time
	onChange  func(vehicleID int64, from, to string)
}

// NewMachine creates a machine for one vehicle.
func NewMachine(vehicleID int64, initialStatus string, onChange func(vehicleID int64, from, to string)) *Machine {
	if initialStatus == "" {
		initialStatus = models.StatusDisponivel
	}

	m := &Machine{
		vehicleID: vehicleID,
		since:     time.Now(),
		onChange:  onChange,
	}

	m.fsm = fsm.NewFSM(
		initialStatus,
		fsm.Events{
			{Name: EventRegistrarVenda, Src: []string{models.StatusDisponivel}, Dst: models.StatusVendido},
			{Name: EventCancelarVenda, Src: []string{models.StatusVendido}, Dst: models.StatusDisponivel},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onChange != nil && e.Src != e.Dst {
					m.onChange(m.vehicleID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// Current returns the current status.
func (m *Machine) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Status returns a snapshot.
func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{VehicleID: m.vehicleID, Current: m.fsm.Current(), Since: m.since}
}

// Trigger fires a transition event.
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	m.since = time.Now()
	return nil
}

// Can reports whether the event is currently allowed.
func (m *Machine) Can(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// Manager holds one machine per vehicle.
type Manager struct {
	mu       sync.RWMutex
	machines map[int64]*Machine
	onChange func(vehicleID int64, from, to string)
}

// NewManager creates a manager with a shared transition callback.
func NewManager(onChange func(vehicleID int64, from, to string)) *Manager {
	return &Manager{
		machines: make(map[int64]*Machine),
		onChange: onChange,
	}
}

// GetOrCreate returns the vehicle's machine, creating it at initialStatus.
func (m *Manager) GetOrCreate(vehicleID int64, initialStatus string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[vehicleID]; ok {
		return machine
	}

	machine := NewMachine(vehicleID, initialStatus, m.onChange)
	m.machines[vehicleID] = machine
	return machine
}

// Get returns the vehicle's machine if it exists.
func (m *Manager) Get(vehicleID int64) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[vehicleID]
	return machine, ok
}

// Remove drops the machine of a deleted vehicle.
func (m *Manager) Remove(vehicleID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.machines, vehicleID)
}

// AllStatuses snapshots every tracked vehicle.
func (m *Manager) AllStatuses() map[int64]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make(map[int64]Status, len(m.machines))
	for id, machine := range m.machines {
		statuses[id] = machine.Status()
	}
	return statuses
}
