package dealer

// Wire payloads sent to the dealer backend. Optional fields are pointers so
// blank inputs travel as JSON null, matching what the backend expects.

// VehiclePayload is the body of vehicle create/update requests.
type VehiclePayload struct {
	DataCompra    string  `json:"dataCompra"`
	Marca         string  `json:"marca"`
	Modelo        string  `json:"modelo"`
	Placa         string  `json:"placa"`
	AnoModelo     string  `json:"anoModelo"`
	Cor           string  `json:"cor"`
	Chassi        string  `json:"chassi"`
	Renavan       string  `json:"renavan"`
	ValorCompra   float64 `json:"valorCompra"`
	KM            int64   `json:"km"`
	Status        string  `json:"status"`
	DocumentoTipo string  `json:"documentoTipo"`
	ClientID      int64   `json:"clientId"`
}

// ClientPayload is the body of client create/update requests. CPF, CEP and
// celular are transmitted digits-only; masks live in the UI layer.
type ClientPayload struct {
	Nome    string  `json:"nome"`
	Rua     string  `json:"rua"`
	Bairro  string  `json:"bairro"`
	Cidade  string  `json:"cidade"`
	CEP     string  `json:"cep"`
	Celular string  `json:"celular"`
	Tipo    string  `json:"tipo"`
	CPF     string  `json:"cpf"`
	Email   *string `json:"email"`
	RG      *string `json:"rg"`
}

// SalePayload is the body of sale create/update requests.
type SalePayload struct {
	DataVenda          string   `json:"dataVenda"`
	ValorVenda         float64  `json:"valorVenda"`
	Financiou          bool     `json:"financiou"`
	Banco              *string  `json:"banco"`
	PossuiAlienacao    *bool    `json:"possuiAlienacao"`
	ValorFinanciado    *float64 `json:"valorFinanciado"`
	ValorEntrada       *float64 `json:"valorEntrada"`
	ValorParcela       *float64 `json:"valorParcela"`
	QuantidadeParcelas *int     `json:"quantidadeParcelas"`
	DiaVencimento      *int     `json:"diaVencimento"`
	Observacoes        *string  `json:"observacoes"`
	ClientID           int64    `json:"clientId"`
	VehicleID          int64    `json:"vehicleId"`
}

// Document is a generated .docx returned by the backend.
type Document struct {
	Filename string
	Content  []byte
}
