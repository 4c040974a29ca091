package forms

import (
	"strconv"
	"time"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/models"
	"github.com/dveiculos/backoffice/pkg/masks"
)

// VehicleForm carries the vehicle screen's inputs as typed, masks included.
// Field order matches the form layout so the joint message reads naturally.
type VehicleForm struct {
	DataCompra    string `json:"dataCompra"`
	Marca         string `json:"marca" validate:"required" label:"marca"`
	Modelo        string `json:"modelo" validate:"required" label:"modelo"`
	Placa         string `json:"placa" validate:"required" label:"placa"`
	AnoModelo     string `json:"anoModelo" validate:"required" label:"anoModelo"`
	Cor           string `json:"cor" validate:"required" label:"cor"`
	Chassi        string `json:"chassi" validate:"required" label:"chassi"`
	Renavan       string `json:"renavan" validate:"required" label:"renavan"`
	ValorCompra   string `json:"valorCompra"`
	KM            string `json:"km"`
	Status        string `json:"status" validate:"required" label:"status"`
	DocumentoTipo string `json:"documentoTipo" validate:"required" label:"documentoTipo"`
	ClientID      int64  `json:"clientId" validate:"required" label:"cliente"`
}

// Validate rejects incomplete forms and duplicate plates. editingID is the
// vehicle being edited, 0 on create; the edited vehicle's own plate never
// counts as a duplicate.
func (f VehicleForm) Validate(vehicles []models.Vehicle, editingID int64) error {
	if campos := missingFields(f); len(campos) > 0 {
		return errCamposObrigatorios(campos)
	}

	for _, v := range vehicles {
		if v.Placa != f.Placa || v.ID == editingID {
			continue
		}
		if editingID != 0 {
			return &ValidationError{Message: "Placa já cadastrada para outro veículo!"}
		}
		return &ValidationError{Message: "Placa já cadastrada!"}
	}
	return nil
}

// Payload coerces the form into the wire shape. A blank purchase date
// defaults to now.
func (f VehicleForm) Payload() dealer.VehiclePayload {
	dataCompra := time.Now().UTC()
	if t, ok := parseDate(f.DataCompra); ok {
		dataCompra = t.UTC()
	}

	km, _ := strconv.ParseInt(masks.Digits(f.KM), 10, 64)

	return dealer.VehiclePayload{
		DataCompra:    dataCompra.Format(time.RFC3339),
		Marca:         f.Marca,
		Modelo:        f.Modelo,
		Placa:         f.Placa,
		AnoModelo:     f.AnoModelo,
		Cor:           f.Cor,
		Chassi:        f.Chassi,
		Renavan:       f.Renavan,
		ValorCompra:   masks.StripMoeda(f.ValorCompra),
		KM:            km,
		Status:        f.Status,
		DocumentoTipo: f.DocumentoTipo,
		ClientID:      f.ClientID,
	}
}
