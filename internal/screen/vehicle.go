package screen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/derive"
	"github.com/dveiculos/backoffice/internal/forms"
	"github.com/dveiculos/backoffice/internal/models"
	"github.com/dveiculos/backoffice/internal/store"
	"github.com/dveiculos/backoffice/pkg/bus"
)

// VehicleScreen is the vehicles tab controller.
type VehicleScreen struct {
	logger   *zap.Logger
	api      *dealer.Client
	vehicles *store.Vehicles
	clients  *store.Clients
	bus      *bus.Bus
	view     *derive.ListView
	guard    busyGuard
}

// NewVehicleScreen creates the vehicles controller.
func NewVehicleScreen(logger *zap.Logger, api *dealer.Client, vehicles *store.Vehicles, clients *store.Clients, b *bus.Bus) *VehicleScreen {
	return &VehicleScreen{
		logger:   logger,
		api:      api,
		vehicles: vehicles,
		clients:  clients,
		bus:      b,
		view:     derive.NewListView(),
	}
}

// Load fetches the vehicle collection with owners embedded, then the client
// collection for the owner picker.
func (s *VehicleScreen) Load(ctx context.Context) error {
	vehicles, err := s.api.ListVehicles(ctx, true)
	if err != nil {
		return fmt.Errorf("load vehicles: %w", err)
	}
	s.vehicles.ReplaceAll(vehicles)

	clients, err := s.api.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}
	s.clients.ReplaceAll(clients)

	s.logger.Info("Vehicle screen loaded",
		zap.Int("vehicles", len(vehicles)),
		zap.Int("clients", len(clients)))
	return nil
}

// Submit validates the form and creates or updates the vehicle. editingID is
// 0 on create. After the local store is consistent, a vehicle with an owner
// is announced on the bus.
func (s *VehicleScreen) Submit(ctx context.Context, f forms.VehicleForm, editingID int64) (models.Vehicle, error) {
	if !s.guard.acquire() {
		return models.Vehicle{}, ErrOcupado
	}
	defer s.guard.release()

	if err := f.Validate(s.vehicles.All(), editingID); err != nil {
		return models.Vehicle{}, err
	}

	payload := f.Payload()

	var (
		saved models.Vehicle
		err   error
	)
	if editingID == 0 {
		saved, err = s.api.CreateVehicle(ctx, payload)
	} else {
		saved, err = s.api.UpdateVehicle(ctx, editingID, payload)
	}
	if err != nil {
		return models.Vehicle{}, err
	}

	// Not every backend write echoes the owner back; fall back to what was
	// sent, and denormalize the owner name from the local client collection.
	if saved.OwnerID() == 0 {
		saved.ClientID = payload.ClientID
	}
	if saved.Client == nil {
		if c, ok := s.clients.Get(saved.OwnerID()); ok {
			saved.Client = &models.ClientRef{ID: c.ID, Nome: c.Nome}
		}
	}

	s.vehicles.Upsert(saved)

	if ownerID := saved.OwnerID(); ownerID != 0 {
		s.bus.Publish(bus.VeiculoAtribuido{ClienteID: ownerID, Veiculo: saved})
		s.logger.Info("Vehicle assigned",
			zap.Int64("vehicle_id", saved.ID),
			zap.Int64("client_id", ownerID))
	}
	return saved, nil
}

// Delete removes the vehicle remotely and locally.
func (s *VehicleScreen) Delete(ctx context.Context, id int64) error {
	if !s.guard.acquire() {
		return ErrOcupado
	}
	defer s.guard.release()

	if err := s.api.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.vehicles.Remove(id)
	s.logger.Info("Vehicle deleted", zap.Int64("vehicle_id", id))
	return nil
}

// SetQuery updates the search text.
func (s *VehicleScreen) SetQuery(q string) { s.view.SetQuery(q) }

// SetFilter updates the status filter.
func (s *VehicleScreen) SetFilter(f string) { s.view.SetFilter(f) }

// SetPage requests a page.
func (s *VehicleScreen) SetPage(p int) { s.view.SetPage(p) }

// Page renders the current searched, filtered page of vehicles.
func (s *VehicleScreen) Page() derive.Result[models.Vehicle] {
	return derive.View(s.vehicles.All(), s.view, derive.VehicleSearchText, func(v models.Vehicle) string {
		return v.Status
	})
}

// Clients returns the clients available to the owner picker.
func (s *VehicleScreen) Clients() []models.Client {
	return s.clients.All()
}
