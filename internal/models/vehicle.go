package models

import "time"

// Vehicle status values
const (
	StatusDisponivel = "Disponível"
	StatusVendido    = "Vendido"
)

// Vehicle document types
const (
	DocumentoATPV = "ATPV"
	DocumentoDUT  = "DUT"
)

// ClientRef is the owner embedded by the backend on _expand=client.
type ClientRef struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// Vehicle mirrors a vehicle record from the dealer backend.
type Vehicle struct {
	ID            int64     `json:"id"`
	DataCompra    time.Time `json:"dataCompra"`
	Marca         string    `json:"marca"`
	Modelo        string    `json:"modelo"`
	Placa         string    `json:"placa"`
	AnoModelo     string    `json:"anoModelo"`
	Cor           string    `json:"cor"`
	Chassi        string    `json:"chassi"`
	Renavan       string    `json:"renavan"`
	ValorCompra   float64   `json:"valorCompra"`
	KM            int64     `json:"km"`
	Status        string    `json:"status"`
	DocumentoTipo string    `json:"documentoTipo"`

	// The upstream schema is not consistent about the owner foreign key.
	// Depending on which service wrote the record, any of these may carry it.
	ClientID  int64 `json:"clientId,omitempty"`
	ClienteID int64 `json:"clienteId,omitempty"`
	ClientID2 int64 `json:"client_id,omitempty"`
	OwnerID2  int64 `json:"ownerId,omitempty"`

	Client *ClientRef `json:"client,omitempty"`
}

// OwnerID resolves the owner foreign key across the upstream aliases.
// First non-zero wins. Returns 0 when the vehicle has no owner.
func (v *Vehicle) OwnerID() int64 {
	for _, id := range []int64{v.ClientID, v.ClienteID, v.ClientID2, v.OwnerID2} {
		if id != 0 {
			return id
		}
	}
	return 0
}

// Descricao is the display label used by vehicle pickers.
func (v *Vehicle) Descricao() string {
	return v.Marca + " " + v.Modelo + " - " + v.Placa
}
