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
	"github.com/dveiculos/backoffice/internal/state"
	"github.com/dveiculos/backoffice/internal/store"
)

// SaleScreen is the sales tab controller.
type SaleScreen struct {
	logger   *zap.Logger
	api      *dealer.Client
	sales    *store.Sales
	clients  *store.Clients
	vehicles *store.Vehicles
	machines *state.Manager
	view     *derive.ListView
	guard    busyGuard
}

// NewSaleScreen creates the sales controller.
func NewSaleScreen(logger *zap.Logger, api *dealer.Client, sales *store.Sales, clients *store.Clients, vehicles *store.Vehicles, machines *state.Manager) *SaleScreen {
	return &SaleScreen{
		logger:   logger,
		api:      api,
		sales:    sales,
		clients:  clients,
		vehicles: vehicles,
		machines: machines,
		view:     derive.NewListView(),
	}
}

// Load fetches sales, clients and vehicles concurrently and waits for all
// three. Any failure fails the load.
func (s *SaleScreen) Load(ctx context.Context) error {
	var (
		wg       sync.WaitGroup
		sales    []models.Sale
		clients  []models.Client
		vehicles []models.Vehicle
		salesErr, clientsErr, vehiclesErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		sales, salesErr = s.api.ListSales(ctx)
	}()
	go func() {
		defer wg.Done()
		clients, clientsErr = s.api.ListClients(ctx)
	}()
	go func() {
		defer wg.Done()
		vehicles, vehiclesErr = s.api.ListVehicles(ctx, false)
	}()
	wg.Wait()

	for _, err := range []error{salesErr, clientsErr, vehiclesErr} {
		if err != nil {
			return fmt.Errorf("load sale screen: %w", err)
		}
	}

	s.sales.ReplaceAll(sales)
	s.clients.ReplaceAll(clients)
	s.vehicles.ReplaceAll(vehicles)

	// Seed the status machines from the loaded collections.
	for _, v := range vehicles {
		status := models.StatusDisponivel
		if derive.VehicleSold(v.ID, sales, 0) {
			status = models.StatusVendido
		}
		s.machines.GetOrCreate(v.ID, status)
	}

	s.logger.Info("Sale screen loaded",
		zap.Int("sales", len(sales)),
		zap.Int("clients", len(clients)),
		zap.Int("vehicles", len(vehicles)))
	return nil
}

// AvailableVehicles lists the vehicles the sale form may offer. editingID is
// the sale being edited, 0 on create; its own vehicle stays selectable.
func (s *SaleScreen) AvailableVehicles(editingID int64) []models.Vehicle {
	return derive.AvailableVehicles(s.vehicles.All(), s.sales.All(), editingID)
}

// Submit validates the form and creates or updates the sale. The saved
// record keeps the backend's client/vehicle denorm when present, falling
// back to the local collections; vehicles are then re-fetched in the
// background to reconcile availability.
func (s *SaleScreen) Submit(ctx context.Context, f forms.SaleForm, editingID int64) (models.Sale, error) {
	if !s.guard.acquire() {
		return models.Sale{}, ErrOcupado
	}
	defer s.guard.release()

	if err := f.Validate(s.sales.All(), editingID); err != nil {
		return models.Sale{}, err
	}

	payload := f.Payload()

	var (
		saved models.Sale
		err   error
	)
	if editingID == 0 {
		saved, err = s.api.CreateSale(ctx, payload)
	} else {
		saved, err = s.api.UpdateSale(ctx, editingID, payload)
	}
	if err != nil {
		return models.Sale{}, err
	}

	if saved.Client == nil {
		if c, ok := s.clients.Get(saved.ClientID); ok {
			saved.Client = &c
		}
	}
	if saved.Vehicle == nil {
		if v, ok := s.vehicles.Get(saved.VehicleID); ok {
			saved.Vehicle = &v
		}
	}

	// An edit may move the sale onto another vehicle; release the old one.
	if editingID != 0 {
		if old, ok := s.sales.Get(editingID); ok && old.VehicleID != saved.VehicleID {
			s.release(old.VehicleID)
		}
	}

	s.sales.Upsert(saved)

	machine := s.machines.GetOrCreate(saved.VehicleID, models.StatusDisponivel)
	if machine.Can(state.EventRegistrarVenda) {
		if err := machine.Trigger(state.EventRegistrarVenda); err != nil {
			s.logger.Warn("Status machine rejected sale", zap.Int64("vehicle_id", saved.VehicleID), zap.Error(err))
		}
	}

	s.logger.Info("Sale saved",
		zap.Int64("sale_id", saved.ID),
		zap.Int64("vehicle_id", saved.VehicleID),
		zap.Int64("client_id", saved.ClientID))

	go s.refreshVehicles(context.WithoutCancel(ctx))
	return saved, nil
}

// Delete removes the sale, releases its vehicle and re-fetches the vehicle
// collection. A stale vehicle list after a failed refresh self-heals on the
// next load.
func (s *SaleScreen) Delete(ctx context.Context, id int64) error {
	if !s.guard.acquire() {
		return ErrOcupado
	}
	defer s.guard.release()

	sale, _ := s.sales.Get(id)

	if err := s.api.DeleteSale(ctx, id); err != nil {
		return err
	}
	s.sales.Remove(id)

	if sale.VehicleID != 0 {
		s.release(sale.VehicleID)
	}

	s.logger.Info("Sale deleted", zap.Int64("sale_id", id))
	s.refreshVehicles(ctx)
	return nil
}

// release cancels a vehicle's sale in its status machine.
func (s *SaleScreen) release(vehicleID int64) {
	machine, ok := s.machines.Get(vehicleID)
	if !ok || !machine.Can(state.EventCancelarVenda) {
		return
	}
	if err := machine.Trigger(state.EventCancelarVenda); err != nil {
		s.logger.Warn("Status machine rejected release", zap.Int64("vehicle_id", vehicleID), zap.Error(err))
	}
}

// refreshVehicles replaces the vehicle collection from the backend. The
// backend updates vehicle status as sales come and go.
func (s *SaleScreen) refreshVehicles(ctx context.Context) {
	vehicles, err := s.api.ListVehicles(ctx, false)
	if err != nil {
		s.logger.Warn("Vehicle refresh failed", zap.Error(err))
		return
	}
	s.vehicles.ReplaceAll(vehicles)
}

// SetQuery updates the search text.
func (s *SaleScreen) SetQuery(q string) { s.view.SetQuery(q) }

// SetPage requests a page.
func (s *SaleScreen) SetPage(p int) { s.view.SetPage(p) }

// Page renders the current page of sales.
func (s *SaleScreen) Page() derive.Result[models.Sale] {
	return derive.View(s.sales.All(), s.view, derive.SaleSearchText, nil)
}

// Contrato downloads the sale contract.
func (s *SaleScreen) Contrato(ctx context.Context, saleID int64) (dealer.Document, error) {
	return s.api.DownloadContrato(ctx, saleID)
}

// ATPV downloads the ATPV transfer document.
func (s *SaleScreen) ATPV(ctx context.Context, saleID int64) (dealer.Document, error) {
	return s.api.DownloadATPV(ctx, saleID)
}
