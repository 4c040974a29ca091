package screen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/derive"
	"github.com/dveiculos/backoffice/internal/forms"
	"github.com/dveiculos/backoffice/internal/models"
	"github.com/dveiculos/backoffice/internal/state"
	"github.com/dveiculos/backoffice/internal/store"
	"github.com/dveiculos/backoffice/pkg/bus"
)

// fakeBackend records every request and serves canned collections.
type fakeBackend struct {
	mu       sync.Mutex
	vehicles []models.Vehicle
	clients  []models.Client
	sales    []models.Sale
	requests []string
}

func (f *fakeBackend) record(r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
}

func (f *fakeBackend) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/vehicle":
		json.NewEncoder(w).Encode(f.vehicles)
	case r.Method == http.MethodPost && r.URL.Path == "/vehicle":
		var v models.Vehicle
		json.NewDecoder(r.Body).Decode(&v)
		v.ID = int64(len(f.vehicles) + 100)
		f.vehicles = append(f.vehicles, v)
		json.NewEncoder(w).Encode(v)
	case r.Method == http.MethodGet && r.URL.Path == "/client":
		json.NewEncoder(w).Encode(f.clients)
	case r.Method == http.MethodPost && r.URL.Path == "/client":
		var c models.Client
		json.NewDecoder(r.Body).Decode(&c)
		c.ID = int64(len(f.clients) + 100)
		f.clients = append(f.clients, c)
		json.NewEncoder(w).Encode(c)
	case r.Method == http.MethodGet && r.URL.Path == "/sales":
		json.NewEncoder(w).Encode(f.sales)
	case r.Method == http.MethodPost && r.URL.Path == "/sales":
		var s models.Sale
		json.NewDecoder(r.Body).Decode(&s)
		s.ID = int64(len(f.sales) + 100)
		f.sales = append(f.sales, s)
		json.NewEncoder(w).Encode(s)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/sales/"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/vehicle/"):
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/client/"):
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type fixture struct {
	backend  *fakeBackend
	api      *dealer.Client
	vehicles *store.Vehicles
	clients  *store.Clients
	sales    *store.Sales
	bus      *bus.Bus
	machines *state.Manager
}

func newFixture(t *testing.T, backend *fakeBackend) *fixture {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return &fixture{
		backend:  backend,
		api:      dealer.NewClient(srv.URL, 5*time.Second),
		vehicles: store.NewVehicles(),
		clients:  store.NewClients(),
		sales:    store.NewSales(),
		bus:      bus.New(),
		machines: state.NewManager(nil),
	}
}

func (f *fixture) vehicleScreen() *VehicleScreen {
	return NewVehicleScreen(zap.NewNop(), f.api, f.vehicles, f.clients, f.bus)
}

func (f *fixture) clientScreen() *ClientScreen {
	return NewClientScreen(zap.NewNop(), f.api, f.clients, f.vehicles, f.bus)
}

func (f *fixture) saleScreen() *SaleScreen {
	return NewSaleScreen(zap.NewNop(), f.api, f.sales, f.clients, f.vehicles, f.machines)
}

func validVehicleForm() forms.VehicleForm {
	return forms.VehicleForm{
		Marca:         "Fiat",
		Modelo:        "Uno",
		Placa:         "ABC-1234",
		AnoModelo:     "2020/2021",
		Cor:           "Prata",
		Chassi:        "9BWZZZ377VT004251",
		Renavan:       "12345678901",
		Status:        models.StatusDisponivel,
		DocumentoTipo: models.DocumentoDUT,
		ClientID:      7,
	}
}

func TestVehicleSubmitPublishesAssignmentToMountedClientScreen(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.clients.ReplaceAll([]models.Client{{ID: 7, Nome: "Ana"}})

	cs := f.clientScreen()
	cs.Mount()
	defer cs.Unmount()

	vs := f.vehicleScreen()
	saved, err := vs.Submit(context.Background(), validVehicleForm(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.OwnerID())
	require.NotNil(t, saved.Client)
	assert.Equal(t, "Ana", saved.Client.Nome)

	// The assignment reached the client screen through the bus alone: its
	// derived state flips with only the vehicle POST on the wire.
	client, ok := f.clients.Get(7)
	require.True(t, ok)
	assert.True(t, derive.ClientHasVehicle(client, f.vehicles.All()))
	assert.Equal(t, []string{"POST /vehicle"}, f.backend.recorded())
}

func TestMountedClientScreenAppliesPublishedAssignment(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.clients.ReplaceAll([]models.Client{{ID: 7, Nome: "Ana"}})

	cs := f.clientScreen()
	cs.Mount()
	defer cs.Unmount()

	f.bus.Publish(bus.VeiculoAtribuido{
		ClienteID: 7,
		Veiculo:   models.Vehicle{ID: 99, Placa: "ABC-1234", ClientID: 7},
	})

	page := cs.Page()
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].TemVeiculo)
	require.Len(t, page.Items[0].Veiculos, 1)
	assert.Equal(t, int64(99), page.Items[0].Veiculos[0].ID)
	assert.Empty(t, f.backend.recorded())

	// Once unmounted, events no longer land.
	cs.Unmount()
	f.bus.Publish(bus.VeiculoAtribuido{ClienteID: 7, Veiculo: models.Vehicle{ID: 100, ClientID: 7}})
	assert.Equal(t, 1, f.vehicles.Len())
}

func TestVehicleSubmitEventLostWithoutSubscriber(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	vs := f.vehicleScreen()
	_, err := vs.Submit(context.Background(), validVehicleForm(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, f.bus.SubscriberCount())
}

func TestVehicleSubmitValidationStopsBeforeNetwork(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.vehicles.ReplaceAll([]models.Vehicle{{ID: 1, Placa: "ABC-1234"}})

	vs := f.vehicleScreen()
	_, err := vs.Submit(context.Background(), validVehicleForm(), 0)

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Placa já cadastrada!", verr.Message)
	assert.Empty(t, f.backend.recorded())
}

func TestClientScreenLoadsVehiclesBeforeClients(t *testing.T) {
	backend := &fakeBackend{
		vehicles: []models.Vehicle{{ID: 1, ClientID: 7}},
		clients:  []models.Client{{ID: 7, Nome: "Ana"}},
	}
	f := newFixture(t, backend)

	cs := f.clientScreen()
	require.NoError(t, cs.Load(context.Background()))
	assert.Equal(t, []string{"GET /vehicle", "GET /client"}, backend.recorded())

	page := cs.Page()
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].TemVeiculo)
}

func TestClientSubmitDuplicateCPFStopsBeforeNetwork(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.clients.ReplaceAll([]models.Client{{ID: 3, CPF: "12345678909"}})

	cs := f.clientScreen()
	_, err := cs.Submit(context.Background(), forms.ClientForm{
		Nome:    "Ana",
		CPF:     "123.456.789-09",
		Celular: "(11) 98765-4321",
		Tipo:    "Comprou",
		Rua:     "Rua A",
		Bairro:  "Centro",
		Cidade:  "SP",
		CEP:     "01001-000",
	}, 0)

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CPF já cadastrado!", verr.Message)
	assert.Empty(t, f.backend.recorded())
}

func TestProcuracaoBlockedLocallyWithoutVehicle(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.clients.ReplaceAll([]models.Client{{ID: 7, Nome: "Ana"}})

	cs := f.clientScreen()
	_, err := cs.Procuracao(context.Background(), 7)
	assert.True(t, errors.Is(err, dealer.ErrSemVeiculo))
	assert.Empty(t, f.backend.recorded())
}

func TestSaleScreenLoadFillsAllCollections(t *testing.T) {
	backend := &fakeBackend{
		vehicles: []models.Vehicle{{ID: 1}, {ID: 2}},
		clients:  []models.Client{{ID: 7}},
		sales:    []models.Sale{{ID: 1, VehicleID: 1}},
	}
	f := newFixture(t, backend)

	ss := f.saleScreen()
	require.NoError(t, ss.Load(context.Background()))
	assert.Equal(t, 2, f.vehicles.Len())
	assert.Equal(t, 1, f.clients.Len())
	assert.Equal(t, 1, f.sales.Len())

	// Vehicle 1 is taken by sale 1; only vehicle 2 is offered on create.
	available := ss.AvailableVehicles(0)
	require.Len(t, available, 1)
	assert.Equal(t, int64(2), available[0].ID)

	// Editing sale 1 keeps its own vehicle selectable.
	assert.Len(t, ss.AvailableVehicles(1), 2)

	m, ok := f.machines.Get(1)
	require.True(t, ok)
	assert.Equal(t, models.StatusVendido, m.Current())
}

func TestSaleSubmitMissingClientStopsBeforeNetwork(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	ss := f.saleScreen()
	_, err := ss.Submit(context.Background(), forms.SaleForm{
		DataVenda:  "2024-06-15",
		ValorVenda: "45.000,00",
		VehicleID:  99,
		Financiou:  forms.FinanciouNao,
	}, 0)

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Preencha os campos obrigatórios: cliente", verr.Message)
	assert.Empty(t, f.backend.recorded())
}

func TestSaleSubmitAlreadySoldVehicleRejected(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.sales.ReplaceAll([]models.Sale{{ID: 1, VehicleID: 99}})

	ss := f.saleScreen()
	_, err := ss.Submit(context.Background(), forms.SaleForm{
		DataVenda:  "2024-06-15",
		ValorVenda: "45.000,00",
		ClientID:   7,
		VehicleID:  99,
		Financiou:  forms.FinanciouNao,
	}, 0)

	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Este veículo já foi vendido!", verr.Message)
	assert.Empty(t, f.backend.recorded())
}

func TestSaleSubmitDenormalizesAndMarksVehicleSold(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.clients.ReplaceAll([]models.Client{{ID: 7, Nome: "Ana"}})
	f.vehicles.ReplaceAll([]models.Vehicle{{ID: 99, Placa: "ABC-1234"}})

	ss := f.saleScreen()
	saved, err := ss.Submit(context.Background(), forms.SaleForm{
		DataVenda:  "2024-06-15",
		ValorVenda: "45.000,00",
		ClientID:   7,
		VehicleID:  99,
		Financiou:  forms.FinanciouNao,
	}, 0)
	require.NoError(t, err)

	require.NotNil(t, saved.Client)
	assert.Equal(t, "Ana", saved.Client.Nome)
	require.NotNil(t, saved.Vehicle)
	assert.Equal(t, "ABC-1234", saved.Vehicle.Placa)

	m, ok := f.machines.Get(99)
	require.True(t, ok)
	assert.Equal(t, models.StatusVendido, m.Current())
}

func TestSaleDeleteReleasesVehicle(t *testing.T) {
	backend := &fakeBackend{vehicles: []models.Vehicle{{ID: 99}}}
	f := newFixture(t, backend)
	f.sales.ReplaceAll([]models.Sale{{ID: 1, VehicleID: 99}})
	f.machines.GetOrCreate(99, models.StatusVendido)

	ss := f.saleScreen()
	require.NoError(t, ss.Delete(context.Background(), 1))

	assert.Equal(t, 0, f.sales.Len())
	m, _ := f.machines.Get(99)
	assert.Equal(t, models.StatusDisponivel, m.Current())
	assert.Contains(t, backend.recorded(), "DELETE /sales/1")
	assert.Contains(t, backend.recorded(), "GET /vehicle")
}
