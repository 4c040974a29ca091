package derive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dveiculos/backoffice/internal/models"
)

func vehicleIDs(vehicles []models.Vehicle) []int64 {
	ids := make([]int64, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestAvailableVehicles(t *testing.T) {
	vehicles := []models.Vehicle{{ID: 1}, {ID: 2}}
	sales := []models.Sale{{ID: 10, VehicleID: 1}}

	assert.Equal(t, []int64{2}, vehicleIDs(AvailableVehicles(vehicles, sales, 0)),
		"a vehicle referenced by a sale is never offered for a new sale")

	assert.Equal(t, []int64{1, 2}, vehicleIDs(AvailableVehicles(vehicles, sales, 10)),
		"the vehicle on the sale being edited stays selectable")

	assert.Equal(t, []int64{1, 2}, vehicleIDs(AvailableVehicles(vehicles, nil, 0)))
}

func TestVehicleSold(t *testing.T) {
	sales := []models.Sale{{ID: 10, VehicleID: 1}}
	assert.True(t, VehicleSold(1, sales, 0))
	assert.False(t, VehicleSold(1, sales, 10))
	assert.False(t, VehicleSold(2, sales, 0))
}

func TestClientHasVehicleResolvesAliases(t *testing.T) {
	client := models.Client{ID: 5}

	cases := []struct {
		name    string
		vehicle models.Vehicle
	}{
		{"clientId", models.Vehicle{ID: 1, ClientID: 5}},
		{"clienteId", models.Vehicle{ID: 1, ClienteID: 5}},
		{"client_id", models.Vehicle{ID: 1, ClientID2: 5}},
		{"ownerId", models.Vehicle{ID: 1, OwnerID2: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, ClientHasVehicle(client, []models.Vehicle{tc.vehicle}))
		})
	}

	assert.False(t, ClientHasVehicle(client, []models.Vehicle{{ID: 1, ClientID: 6}}))
	assert.False(t, ClientHasVehicle(client, []models.Vehicle{{ID: 1}}),
		"an unowned vehicle matches nobody")
}

func TestOwnerIDFirstNonZeroWins(t *testing.T) {
	v := models.Vehicle{ClienteID: 3, OwnerID2: 9}
	assert.Equal(t, int64(3), v.OwnerID())
}

func TestDecorateClients(t *testing.T) {
	clients := []models.Client{{ID: 5, Nome: "Ana"}, {ID: 6, Nome: "Bruno"}}
	vehicles := []models.Vehicle{{ID: 99, Placa: "ABC-1234", ClienteID: 5}}

	decorated := DecorateClients(clients, vehicles)
	require.Len(t, decorated, 2)

	assert.True(t, decorated[0].TemVeiculo)
	require.Len(t, decorated[0].Veiculos, 1)
	assert.Equal(t, int64(99), decorated[0].Veiculos[0].ID)

	assert.False(t, decorated[1].TemVeiculo)
	assert.Empty(t, decorated[1].Veiculos)
}

func testVehicles(n int) []models.Vehicle {
	out := make([]models.Vehicle, 0, n)
	for i := 1; i <= n; i++ {
		status := models.StatusDisponivel
		if i%2 == 0 {
			status = models.StatusVendido
		}
		out = append(out, models.Vehicle{
			ID:     int64(i),
			Marca:  "Fiat",
			Modelo: fmt.Sprintf("Uno %d", i),
			Placa:  fmt.Sprintf("ABC-%04d", i),
			Status: status,
		})
	}
	return out
}

func TestViewPagination(t *testing.T) {
	vehicles := testVehicles(12)
	lv := NewListView()

	res := View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })
	assert.Equal(t, 3, res.TotalPages, "ceil(12/5)")
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Items, 5)

	lv.SetPage(3)
	res = View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })
	assert.Equal(t, 3, res.Page)
	assert.Len(t, res.Items, 2, "last page holds the remainder")

	lv.SetPage(99)
	res = View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })
	assert.Equal(t, 3, res.Page, "page clamps to the upper bound")

	lv.SetPage(-1)
	res = View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })
	assert.Equal(t, 1, res.Page, "page clamps to 1")
}

func TestViewQueryResetsPage(t *testing.T) {
	vehicles := testVehicles(12)
	lv := NewListView()
	lv.SetPage(3)
	View(vehicles, lv, VehicleSearchText, nil)

	lv.SetQuery("uno 1")
	res := View(vehicles, lv, VehicleSearchText, nil)
	assert.Equal(t, 1, res.Page, "changing the search resets to page 1")

	// "Uno 1", "Uno 10", "Uno 11", "Uno 12" match case-insensitively.
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.TotalPages)
}

func TestViewFilter(t *testing.T) {
	vehicles := testVehicles(12)
	lv := NewListView()
	lv.SetPage(2)
	View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })

	lv.SetFilter(models.StatusVendido)
	res := View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })
	assert.Equal(t, 1, res.Page, "changing the filter resets to page 1")
	assert.Equal(t, 6, res.Total)
	for _, v := range res.Items {
		assert.Equal(t, models.StatusVendido, v.Status)
	}

	lv.SetFilter(FilterTodos)
	res = View(vehicles, lv, VehicleSearchText, func(v models.Vehicle) string { return v.Status })
	assert.Equal(t, 12, res.Total)
}

func TestViewEmptyCollection(t *testing.T) {
	lv := NewListView()
	res := View(nil, lv, VehicleSearchText, nil)
	assert.Equal(t, 0, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.Empty(t, res.Items)
}

func TestSaleSearchTextUsesDenormalizedRelations(t *testing.T) {
	s := models.Sale{
		ValorVenda: 35000,
		Client:     &models.Client{Nome: "Carlos"},
		Vehicle:    &models.Vehicle{Placa: "XYZ-9876", Marca: "Honda"},
	}
	text := SaleSearchText(s)
	assert.Contains(t, text, "Carlos")
	assert.Contains(t, text, "XYZ-9876")
	assert.Contains(t, text, "Honda")
	assert.Contains(t, text, "35000")

	// Relations missing (not expanded) must not panic.
	assert.NotPanics(t, func() { SaleSearchText(models.Sale{}) })
}
