package screen

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/derive"
	"github.com/dveiculos/backoffice/internal/forms"
	"github.com/dveiculos/backoffice/internal/models"
	"github.com/dveiculos/backoffice/internal/store"
	"github.com/dveiculos/backoffice/pkg/bus"
)

// ClientScreen is the clients tab controller.
type ClientScreen struct {
	logger   *zap.Logger
	api      *dealer.Client
	clients  *store.Clients
	vehicles *store.Vehicles
	bus      *bus.Bus
	view     *derive.ListView
	guard    busyGuard

	mu          sync.Mutex
	unsubscribe func()
}

// NewClientScreen creates the clients controller.
func NewClientScreen(logger *zap.Logger, api *dealer.Client, clients *store.Clients, vehicles *store.Vehicles, b *bus.Bus) *ClientScreen {
	return &ClientScreen{
		logger:   logger,
		api:      api,
		clients:  clients,
		vehicles: vehicles,
		bus:      b,
		view:     derive.NewListView(),
	}
}

// Load fetches vehicles first, then clients. The temVeiculo decoration is
// derived from the vehicle collection, so the client fetch is gated on it.
func (s *ClientScreen) Load(ctx context.Context) error {
	vehicles, err := s.api.ListVehicles(ctx, false)
	if err != nil {
		return fmt.Errorf("load vehicles: %w", err)
	}
	s.vehicles.ReplaceAll(vehicles)

	clients, err := s.api.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}
	s.clients.ReplaceAll(clients)

	s.logger.Info("Client screen loaded",
		zap.Int("clients", len(clients)),
		zap.Int("vehicles", len(vehicles)))
	return nil
}

// Mount subscribes to vehicle assignment events. A delivered event lands the
// vehicle in the local collection, so the owning client's temVeiculo flips
// without any network call. Mounting twice is a no-op.
func (s *ClientScreen) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = s.bus.Subscribe(func(ev bus.VeiculoAtribuido) {
		s.vehicles.Upsert(ev.Veiculo)
		s.logger.Debug("Vehicle assignment received",
			zap.Int64("client_id", ev.ClienteID),
			zap.Int64("vehicle_id", ev.Veiculo.ID))
	})
}

// Unmount detaches the bus subscription.
func (s *ClientScreen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Submit validates the form and creates or updates the client. editingID is
// 0 on create.
func (s *ClientScreen) Submit(ctx context.Context, f forms.ClientForm, editingID int64) (models.Client, error) {
	if !s.guard.acquire() {
		return models.Client{}, ErrOcupado
	}
	defer s.guard.release()

	if err := f.Validate(s.clients.All(), editingID); err != nil {
		return models.Client{}, err
	}

	payload := f.Payload()

	var (
		saved models.Client
		err   error
	)
	if editingID == 0 {
		saved, err = s.api.CreateClient(ctx, payload)
	} else {
		saved, err = s.api.UpdateClient(ctx, editingID, payload)
	}
	if err != nil {
		return models.Client{}, err
	}

	s.clients.Upsert(saved)
	s.logger.Info("Client saved", zap.Int64("client_id", saved.ID))
	return saved, nil
}

// Delete removes the client remotely and locally.
func (s *ClientScreen) Delete(ctx context.Context, id int64) error {
	if !s.guard.acquire() {
		return ErrOcupado
	}
	defer s.guard.release()

	if err := s.api.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.clients.Remove(id)
	s.logger.Info("Client deleted", zap.Int64("client_id", id))
	return nil
}

// Procuracao downloads the power-of-attorney document. A client without an
// assigned vehicle is rejected locally before any network call, with the
// same guidance the backend's 403 maps to.
func (s *ClientScreen) Procuracao(ctx context.Context, clientID int64) (dealer.Document, error) {
	client, ok := s.clients.Get(clientID)
	if !ok {
		return dealer.Document{}, fmt.Errorf("cliente %d não encontrado", clientID)
	}
	if !derive.ClientHasVehicle(client, s.vehicles.All()) {
		return dealer.Document{}, dealer.ErrSemVeiculo
	}
	return s.api.DownloadProcuracao(ctx, client.ID, client.Nome)
}

// SetQuery updates the search text.
func (s *ClientScreen) SetQuery(q string) { s.view.SetQuery(q) }

// SetFilter updates the tipo filter.
func (s *ClientScreen) SetFilter(f string) { s.view.SetFilter(f) }

// SetPage requests a page.
func (s *ClientScreen) SetPage(p int) { s.view.SetPage(p) }

// Page renders the current page of clients decorated with their derived
// vehicle state.
func (s *ClientScreen) Page() derive.Result[models.ClientComVeiculos] {
	decorated := derive.DecorateClients(s.clients.All(), s.vehicles.All())
	return derive.View(decorated, s.view, derive.ClientSearchText, func(c models.ClientComVeiculos) string {
		return c.Tipo
	})
}
