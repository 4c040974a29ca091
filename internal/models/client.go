package models

// Client relationship types
var TiposCliente = []string{
	"Comprou",
	"Trocou",
	"Financiou - Terceiro",
	"Vendeu",
	"Consignou",
}

// Client mirrors a client record from the dealer backend.
type Client struct {
	ID      int64  `json:"id"`
	Nome    string `json:"nome"`
	CPF     string `json:"cpf"`
	RG      string `json:"rg,omitempty"`
	Celular string `json:"celular"`
	Email   string `json:"email,omitempty"`
	Rua     string `json:"rua"`
	Bairro  string `json:"bairro"`
	Cidade  string `json:"cidade"`
	CEP     string `json:"cep"`
	Tipo    string `json:"tipo"`
}

// ClientComVeiculos is a client decorated with derived vehicle state.
// Never stored; recomputed from the vehicle collection on every load.
type ClientComVeiculos struct {
	Client
	TemVeiculo bool      `json:"temVeiculo"`
	Veiculos   []Vehicle `json:"veiculos"`
}
