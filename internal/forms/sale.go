package forms

import (
	"time"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/derive"
	"github.com/dveiculos/backoffice/internal/models"
)

// Financing answers accepted by the sale form.
const (
	FinanciouSim = "sim"
	FinanciouNao = "nao"
)

// SaleForm carries the sales screen's inputs as typed. Financing fields are
// only meaningful when Financiou is "sim"; blanks travel as null.
type SaleForm struct {
	DataVenda          string `json:"dataVenda" validate:"required" label:"data"`
	ValorVenda         string `json:"valorVenda" validate:"required" label:"valor"`
	ClientID           int64  `json:"clientId" validate:"required" label:"cliente"`
	VehicleID          int64  `json:"vehicleId" validate:"required" label:"veículo"`
	Financiou          string `json:"financiou" validate:"required" label:"financiamento"`
	Banco              string `json:"banco"`
	PossuiAlienacao    string `json:"possuiAlienacao"`
	ValorFinanciado    string `json:"valorFinanciado"`
	ValorEntrada       string `json:"valorEntrada"`
	ValorParcela       string `json:"valorParcela"`
	QuantidadeParcelas string `json:"quantidadeParcelas"`
	DiaVencimento      string `json:"diaVencimento"`
	Observacoes        string `json:"observacoes"`
}

// Validate rejects incomplete forms, unparseable dates and vehicles already
// taken by another sale. editingID is the sale being edited, 0 on create;
// the edited sale keeps its own vehicle.
func (f SaleForm) Validate(sales []models.Sale, editingID int64) error {
	if campos := missingFields(f); len(campos) > 0 {
		return errCamposObrigatorios(campos)
	}

	if _, ok := parseDate(f.DataVenda); !ok {
		return &ValidationError{Message: "Data da venda inválida"}
	}

	if derive.VehicleSold(f.VehicleID, sales, editingID) {
		return &ValidationError{Message: "Este veículo já foi vendido!"}
	}
	return nil
}

// Payload coerces the form into the wire shape.
func (f SaleForm) Payload() dealer.SalePayload {
	dataVenda, _ := parseDate(f.DataVenda)

	var possuiAlienacao *bool
	if f.PossuiAlienacao != "" {
		v := f.PossuiAlienacao == FinanciouSim
		possuiAlienacao = &v
	}

	var valorVenda float64
	if v := optionalMoeda(f.ValorVenda); v != nil {
		valorVenda = *v
	}

	return dealer.SalePayload{
		DataVenda:          dataVenda.UTC().Format(time.RFC3339),
		ValorVenda:         valorVenda,
		Financiou:          f.Financiou == FinanciouSim,
		Banco:              optionalString(f.Banco),
		PossuiAlienacao:    possuiAlienacao,
		ValorFinanciado:    optionalMoeda(f.ValorFinanciado),
		ValorEntrada:       optionalMoeda(f.ValorEntrada),
		ValorParcela:       optionalMoeda(f.ValorParcela),
		QuantidadeParcelas: optionalInt(f.QuantidadeParcelas),
		DiaVencimento:      optionalInt(f.DiaVencimento),
		Observacoes:        optionalString(f.Observacoes),
		ClientID:           f.ClientID,
		VehicleID:          f.VehicleID,
	}
}
