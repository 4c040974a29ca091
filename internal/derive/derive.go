// Package derive computes the read-only projections the screens render:
// vehicle availability, the client temVeiculo flag, and the searched,
// filtered, paginated list views. Projections never mutate the source
// collections; they are recomputed on every relevant state change.
package derive

import (
	"strconv"
	"strings"

	"github.com/dveiculos/backoffice/internal/models"
)

// PageSize is fixed by the dashboard layout.
const PageSize = 5

// FilterTodos disables categorical filtering.
const FilterTodos = "Todos"

// AvailableVehicles returns the vehicles a sale form may offer: those not
// referenced by any sale, except the sale currently being edited, whose own
// vehicle stays selectable. Pass editingSaleID 0 when creating.
func AvailableVehicles(vehicles []models.Vehicle, sales []models.Sale, editingSaleID int64) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !VehicleSold(v.ID, sales, editingSaleID) {
			out = append(out, v)
		}
	}
	return out
}

// VehicleSold reports whether a sale other than editingSaleID references
// the vehicle.
func VehicleSold(vehicleID int64, sales []models.Sale, editingSaleID int64) bool {
	for _, s := range sales {
		if s.VehicleID == vehicleID && s.ID != editingSaleID {
			return true
		}
	}
	return false
}

// VehiclesOf returns the vehicles whose resolved owner foreign key matches
// the client id.
func VehiclesOf(clientID int64, vehicles []models.Vehicle) []models.Vehicle {
	var out []models.Vehicle
	for _, v := range vehicles {
		if v.OwnerID() == clientID {
			out = append(out, v)
		}
	}
	return out
}

// ClientHasVehicle reports whether any vehicle points at the client through
// one of the owner foreign-key aliases.
func ClientHasVehicle(client models.Client, vehicles []models.Vehicle) bool {
	for _, v := range vehicles {
		if v.OwnerID() == client.ID {
			return true
		}
	}
	return false
}

// DecorateClients attaches the derived vehicle state to every client.
func DecorateClients(clients []models.Client, vehicles []models.Vehicle) []models.ClientComVeiculos {
	out := make([]models.ClientComVeiculos, 0, len(clients))
	for _, c := range clients {
		veiculos := VehiclesOf(c.ID, vehicles)
		out = append(out, models.ClientComVeiculos{
			Client:     c,
			TemVeiculo: len(veiculos) > 0,
			Veiculos:   veiculos,
		})
	}
	return out
}

// ListView holds the search/filter/pagination state of one screen. Changing
// the query or the filter snaps back to page 1; the page is clamped against
// the filtered count when the view is built.
type ListView struct {
	query  string
	filter string
	page   int
}

// NewListView starts with no query, no filter and page 1.
func NewListView() *ListView {
	return &ListView{filter: FilterTodos, page: 1}
}

// SetQuery updates the search text, resetting to page 1 on change.
func (l *ListView) SetQuery(q string) {
	if q != l.query {
		l.query = q
		l.page = 1
	}
}

// SetFilter updates the categorical filter, resetting to page 1 on change.
func (l *ListView) SetFilter(f string) {
	if f == "" {
		f = FilterTodos
	}
	if f != l.filter {
		l.filter = f
		l.page = 1
	}
}

// SetPage requests a page; it is clamped when the view is built.
func (l *ListView) SetPage(p int) {
	l.page = p
}

// Query returns the current search text.
func (l *ListView) Query() string { return l.query }

// Filter returns the current categorical filter.
func (l *ListView) Filter() string { return l.filter }

// Result is one rendered page of a collection.
type Result[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

// View searches, filters and paginates items. searchText produces the
// entity's concatenated display string; categoryOf the value compared
// against the filter.
func View[T any](items []T, lv *ListView, searchText func(T) string, categoryOf func(T) string) Result[T] {
	query := strings.ToLower(lv.query)

	filtered := make([]T, 0, len(items))
	for _, it := range items {
		if query != "" && !strings.Contains(strings.ToLower(searchText(it)), query) {
			continue
		}
		if lv.filter != FilterTodos && categoryOf != nil && categoryOf(it) != lv.filter {
			continue
		}
		filtered = append(filtered, it)
	}

	totalPages := (len(filtered) + PageSize - 1) / PageSize

	page := lv.page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	lv.page = page

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result[T]{
		Items:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
	}
}

// VehicleSearchText matches what the vehicle table shows.
func VehicleSearchText(v models.Vehicle) string {
	nome := ""
	if v.Client != nil {
		nome = v.Client.Nome
	}
	return strings.Join([]string{v.Marca, v.Modelo, v.Placa, v.AnoModelo, nome, v.Cor, v.Chassi}, " ")
}

// ClientSearchText matches what the client table shows.
func ClientSearchText(c models.ClientComVeiculos) string {
	return strings.Join([]string{c.Nome, c.CEP, c.Bairro, c.CPF, c.Celular, c.Tipo}, " ")
}

// SaleSearchText matches what the sales table shows.
func SaleSearchText(s models.Sale) string {
	nome, placa, marca := "", "", ""
	if s.Client != nil {
		nome = s.Client.Nome
	}
	if s.Vehicle != nil {
		placa = s.Vehicle.Placa
		marca = s.Vehicle.Marca
	}
	valor := strconv.FormatFloat(s.ValorVenda, 'f', -1, 64)
	return strings.Join([]string{nome, placa, marca, valor}, " ")
}
