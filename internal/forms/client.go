package forms

import (
	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/models"
	"github.com/dveiculos/backoffice/pkg/masks"
)

// ClientForm carries the client screen's inputs as typed, masks included.
type ClientForm struct {
	Nome    string `json:"nome" validate:"required" label:"nome"`
	CPF     string `json:"cpf" validate:"required" label:"cpf"`
	Celular string `json:"celular" validate:"required" label:"celular"`
	Tipo    string `json:"tipo" validate:"required" label:"tipo"`
	Rua     string `json:"rua" validate:"required" label:"rua"`
	Bairro  string `json:"bairro" validate:"required" label:"bairro"`
	Cidade  string `json:"cidade" validate:"required" label:"cidade"`
	CEP     string `json:"cep" validate:"required" label:"cep"`
	Email   string `json:"email"`
	RG      string `json:"rg"`
}

// Validate rejects incomplete forms, malformed CPFs and duplicate CPFs.
// CPFs are compared digits-only so masked and raw values collide. editingID
// is the client being edited, 0 on create.
func (f ClientForm) Validate(clients []models.Client, editingID int64) error {
	if campos := missingFields(f); len(campos) > 0 {
		return errCamposObrigatorios(campos)
	}

	cpf := masks.StripCPF(f.CPF)
	if len(cpf) != 11 {
		return &ValidationError{Message: "CPF deve ter 11 dígitos!"}
	}

	for _, c := range clients {
		if c.ID != editingID && masks.StripCPF(c.CPF) == cpf {
			return &ValidationError{Message: "CPF já cadastrado!"}
		}
	}
	return nil
}

// Payload coerces the form into the wire shape, stripping the input masks.
func (f ClientForm) Payload() dealer.ClientPayload {
	return dealer.ClientPayload{
		Nome:    f.Nome,
		Rua:     f.Rua,
		Bairro:  f.Bairro,
		Cidade:  f.Cidade,
		CEP:     masks.StripCEP(f.CEP),
		Celular: masks.StripCelular(f.Celular),
		Tipo:    f.Tipo,
		CPF:     masks.StripCPF(f.CPF),
		Email:   optionalString(f.Email),
		RG:      optionalString(f.RG),
	}
}
