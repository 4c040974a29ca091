package models

import "time"

// Sale mirrors a sale record from the dealer backend.
// Optional fields are pointers so blank form inputs travel as JSON null.
type Sale struct {
	ID                 int64     `json:"id"`
	DataVenda          time.Time `json:"dataVenda"`
	ValorVenda         float64   `json:"valorVenda"`
	Financiou          bool      `json:"financiou"`
	Banco              *string   `json:"banco"`
	PossuiAlienacao    *bool     `json:"possuiAlienacao"`
	ValorFinanciado    *float64  `json:"valorFinanciado"`
	ValorEntrada       *float64  `json:"valorEntrada"`
	ValorParcela       *float64  `json:"valorParcela"`
	QuantidadeParcelas *int      `json:"quantidadeParcelas"`
	DiaVencimento      *int      `json:"diaVencimento"`
	Observacoes        *string   `json:"observacoes"`
	ClientID           int64     `json:"clientId"`
	VehicleID          int64     `json:"vehicleId"`

	// Embedded by the backend on _expand=client&_expand=vehicle.
	Client  *Client  `json:"client,omitempty"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}
