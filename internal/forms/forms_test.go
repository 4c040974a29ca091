package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dveiculos/backoffice/internal/models"
)

func validVehicleForm() VehicleForm {
	return VehicleForm{
		DataCompra:    "2024-05-01",
		Marca:         "Fiat",
		Modelo:        "Uno",
		Placa:         "ABC-1234",
		AnoModelo:     "2020/2021",
		Cor:           "Prata",
		Chassi:        "9BWZZZ377VT004251",
		Renavan:       "12345678901",
		ValorCompra:   "35.000,00",
		KM:            "42000",
		Status:        models.StatusDisponivel,
		DocumentoTipo: models.DocumentoDUT,
		ClientID:      7,
	}
}

func TestVehicleFormMissingFieldsJointMessage(t *testing.T) {
	f := validVehicleForm()
	f.Marca = ""
	f.Cor = ""
	f.ClientID = 0

	err := f.Validate(nil, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Preencha os campos obrigatórios: marca, cor, cliente", verr.Message)
}

func TestVehicleFormDuplicatePlaca(t *testing.T) {
	existing := []models.Vehicle{{ID: 1, Placa: "ABC-1234"}}

	err := validVehicleForm().Validate(existing, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Placa já cadastrada!", verr.Message)

	// Editing another vehicle onto a taken plate is still rejected.
	err = validVehicleForm().Validate(existing, 2)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Placa já cadastrada para outro veículo!", verr.Message)

	// A vehicle keeps its own plate on edit.
	assert.NoError(t, validVehicleForm().Validate(existing, 1))
}

func TestVehicleFormPayloadCoercion(t *testing.T) {
	p := validVehicleForm().Payload()
	assert.Equal(t, "2024-05-01T00:00:00Z", p.DataCompra)
	assert.Equal(t, 35000.0, p.ValorCompra)
	assert.Equal(t, int64(42000), p.KM)
	assert.Equal(t, int64(7), p.ClientID)
}

func TestVehicleFormBlankDateDefaultsToNow(t *testing.T) {
	f := validVehicleForm()
	f.DataCompra = ""
	assert.NotEmpty(t, f.Payload().DataCompra)
}

func validClientForm() ClientForm {
	return ClientForm{
		Nome:    "Ana Souza",
		CPF:     "123.456.789-09",
		Celular: "(11) 98765-4321",
		Tipo:    "Comprou",
		Rua:     "Rua das Flores, 10",
		Bairro:  "Centro",
		Cidade:  "São Paulo",
		CEP:     "01001-000",
	}
}

func TestClientFormMissingFieldsJointMessage(t *testing.T) {
	f := validClientForm()
	f.Nome = ""
	f.CEP = ""

	err := f.Validate(nil, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Preencha os campos obrigatórios: nome, cep", verr.Message)
}

func TestClientFormCPFLength(t *testing.T) {
	f := validClientForm()
	f.CPF = "123.456"

	err := f.Validate(nil, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CPF deve ter 11 dígitos!", verr.Message)
}

func TestClientFormDuplicateCPF(t *testing.T) {
	// Stored digits-only; form value is masked. Same digits must collide.
	existing := []models.Client{{ID: 3, CPF: "12345678909"}}

	err := validClientForm().Validate(existing, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CPF já cadastrado!", verr.Message)

	// Editing another client onto a taken CPF is rejected too.
	err = validClientForm().Validate(existing, 5)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CPF já cadastrado!", verr.Message)

	// A client keeps its own CPF on edit.
	assert.NoError(t, validClientForm().Validate(existing, 3))
}

func TestClientFormPayloadStripsMasks(t *testing.T) {
	p := validClientForm().Payload()
	assert.Equal(t, "12345678909", p.CPF)
	assert.Equal(t, "01001000", p.CEP)
	assert.Equal(t, "11987654321", p.Celular)
	assert.Nil(t, p.Email)
	assert.Nil(t, p.RG)
}

func validSaleForm() SaleForm {
	return SaleForm{
		DataVenda:  "2024-06-15",
		ValorVenda: "45.000,00",
		ClientID:   7,
		VehicleID:  99,
		Financiou:  FinanciouNao,
	}
}

func TestSaleFormMissingClienteNamed(t *testing.T) {
	f := validSaleForm()
	f.ClientID = 0

	err := f.Validate(nil, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Preencha os campos obrigatórios: cliente", verr.Message)
}

func TestSaleFormVehicleAlreadySold(t *testing.T) {
	sales := []models.Sale{{ID: 1, VehicleID: 99}}

	err := validSaleForm().Validate(sales, 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Este veículo já foi vendido!", verr.Message)

	// The sale being edited keeps its own vehicle.
	assert.NoError(t, validSaleForm().Validate(sales, 1))
}

func TestSaleFormPayloadFinancing(t *testing.T) {
	f := validSaleForm()
	f.Financiou = FinanciouSim
	f.Banco = "Banco do Brasil"
	f.PossuiAlienacao = FinanciouSim
	f.ValorFinanciado = "30.000,00"
	f.QuantidadeParcelas = "48"
	f.DiaVencimento = "10"

	p := f.Payload()
	assert.Equal(t, "2024-06-15T00:00:00Z", p.DataVenda)
	assert.Equal(t, 45000.0, p.ValorVenda)
	assert.True(t, p.Financiou)
	require.NotNil(t, p.Banco)
	assert.Equal(t, "Banco do Brasil", *p.Banco)
	require.NotNil(t, p.PossuiAlienacao)
	assert.True(t, *p.PossuiAlienacao)
	require.NotNil(t, p.ValorFinanciado)
	assert.Equal(t, 30000.0, *p.ValorFinanciado)
	require.NotNil(t, p.QuantidadeParcelas)
	assert.Equal(t, 48, *p.QuantidadeParcelas)
	require.NotNil(t, p.DiaVencimento)
	assert.Equal(t, 10, *p.DiaVencimento)
	assert.Nil(t, p.ValorEntrada)
	assert.Nil(t, p.Observacoes)
}

func TestSaleFormPayloadCashSale(t *testing.T) {
	p := validSaleForm().Payload()
	assert.False(t, p.Financiou)
	assert.Nil(t, p.Banco)
	assert.Nil(t, p.PossuiAlienacao)
	assert.Nil(t, p.ValorFinanciado)
	assert.Nil(t, p.QuantidadeParcelas)
}
