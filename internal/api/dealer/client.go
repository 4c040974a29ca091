// Package dealer is the HTTP client for the remote dealer backend. All
// persistence lives behind that API; this client only moves JSON and
// generated documents. No call is ever retried.
package dealer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dveiculos/backoffice/internal/models"
)

// ErrSemVeiculo signals the backend's 403 on document generation: the
// client has no vehicle assigned yet.
var ErrSemVeiculo = errors.New("cliente ainda não possui veículo atribuído")

// ErrNaoAutenticado is returned when a call needs a session token and none
// is set.
var ErrNaoAutenticado = errors.New("não autenticado")

// APIError carries a non-2xx backend response; the body text is surfaced to
// the user as-is.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("erro %d: %s", e.StatusCode, e.Body)
}

// Client talks to the dealer backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a dealer API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SetToken installs the session bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current session token, empty when not logged in.
func (c *Client) Token() string {
	return c.token
}

// storedToken is the token file layout.
type storedToken struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadTokenFile restores a previously saved session token.
func (c *Client) LoadTokenFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	c.token = st.Token
	return nil
}

// SaveTokenFile persists the session token for the next run.
func (c *Client) SaveTokenFile(filename string) error {
	data, err := json.MarshalIndent(storedToken{Token: c.token, CreatedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

// doRequest executes a JSON request, attaching the bearer token when set.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// doJSON executes a request and decodes a 2xx response into out (out may be
// nil). Non-2xx responses come back as *APIError with the body text.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// authResponse is the body of both auth endpoints.
type authResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

// Login checks the dashboard password and stores the returned bearer token
// on the client.
func (c *Client) Login(ctx context.Context, senha string) (string, error) {
	resp, err := c.doRequest(ctx, "POST", "/api/auth/login", map[string]string{"senha": senha})
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := auth.Error
		if msg == "" {
			msg = "Senha inválida"
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: msg}
	}

	c.token = auth.Token
	return auth.Token, nil
}

// CriarSenha sets the initial dashboard password.
func (c *Client) CriarSenha(ctx context.Context, senha string) error {
	resp, err := c.doRequest(ctx, "POST", "/api/auth/criar-senha", map[string]string{"senha": senha})
	if err != nil {
		return fmt.Errorf("criar-senha request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var auth authResponse
		_ = json.NewDecoder(resp.Body).Decode(&auth)
		msg := auth.Error
		if msg == "" {
			msg = "Erro ao criar senha"
		}
		return &APIError{StatusCode: resp.StatusCode, Body: msg}
	}
	return nil
}

// ListVehicles fetches the full vehicle collection, optionally with the
// owner embedded.
func (c *Client) ListVehicles(ctx context.Context, expandClient bool) ([]models.Vehicle, error) {
	path := "/vehicle"
	if expandClient {
		path += "?_expand=client"
	}
	var vehicles []models.Vehicle
	if err := c.doJSON(ctx, "GET", path, nil, &vehicles); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// CreateVehicle creates a vehicle and returns the server record.
func (c *Client) CreateVehicle(ctx context.Context, payload VehiclePayload) (models.Vehicle, error) {
	var v models.Vehicle
	if err := c.doJSON(ctx, "POST", "/vehicle", payload, &v); err != nil {
		return models.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

// UpdateVehicle updates a vehicle and returns the server record.
func (c *Client) UpdateVehicle(ctx context.Context, id int64, payload VehiclePayload) (models.Vehicle, error) {
	var v models.Vehicle
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/vehicle/%d", id), payload, &v); err != nil {
		return models.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

// DeleteVehicle removes a vehicle.
func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/vehicle/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}

// ListClients fetches the full client collection.
func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.doJSON(ctx, "GET", "/client", nil, &clients); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// CreateClient creates a client and returns the server record.
func (c *Client) CreateClient(ctx context.Context, payload ClientPayload) (models.Client, error) {
	var cl models.Client
	if err := c.doJSON(ctx, "POST", "/client", payload, &cl); err != nil {
		return models.Client{}, fmt.Errorf("create client: %w", err)
	}
	return cl, nil
}

// UpdateClient updates a client and returns the server record.
func (c *Client) UpdateClient(ctx context.Context, id int64, payload ClientPayload) (models.Client, error) {
	var cl models.Client
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/client/%d", id), payload, &cl); err != nil {
		return models.Client{}, fmt.Errorf("update client: %w", err)
	}
	return cl, nil
}

// DeleteClient removes a client.
func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/client/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// ListSales fetches the full sale collection with client and vehicle
// embedded.
func (c *Client) ListSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	if err := c.doJSON(ctx, "GET", "/sales?_expand=client&_expand=vehicle", nil, &sales); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// CreateSale creates a sale and returns the server record.
func (c *Client) CreateSale(ctx context.Context, payload SalePayload) (models.Sale, error) {
	var s models.Sale
	if err := c.doJSON(ctx, "POST", "/sales", payload, &s); err != nil {
		return models.Sale{}, fmt.Errorf("create sale: %w", err)
	}
	return s, nil
}

// UpdateSale updates a sale and returns the server record.
func (c *Client) UpdateSale(ctx context.Context, id int64, payload SalePayload) (models.Sale, error) {
	var s models.Sale
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/sales/%d", id), payload, &s); err != nil {
		return models.Sale{}, fmt.Errorf("update sale: %w", err)
	}
	return s, nil
}

// DeleteSale removes a sale.
func (c *Client) DeleteSale(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/sales/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// download fetches a generated document. forbiddenErr, when non-nil, maps a
// 403 to a business-rule sentinel instead of a generic APIError.
func (c *Client) download(ctx context.Context, path, filename string, forbiddenErr error) (Document, error) {
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return Document{}, fmt.Errorf("download %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden && forbiddenErr != nil {
		return Document{}, forbiddenErr
	}
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return Document{}, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", filename, err)
	}
	return Document{Filename: filename, Content: content}, nil
}

// DownloadProcuracao fetches the power-of-attorney document for a client.
// Returns ErrSemVeiculo when the backend answers 403.
func (c *Client) DownloadProcuracao(ctx context.Context, clientID int64, clientNome string) (Document, error) {
	filename := fmt.Sprintf("procuracao-%s.docx", strings.ReplaceAll(strings.TrimSpace(clientNome), " ", "-"))
	return c.download(ctx, fmt.Sprintf("/client/%d/procuracao-docx", clientID), filename, ErrSemVeiculo)
}

// DownloadContrato fetches the purchase/sale contract for a sale.
func (c *Client) DownloadContrato(ctx context.Context, saleID int64) (Document, error) {
	return c.download(ctx, fmt.Sprintf("/sales/%d/contrato-docx", saleID), fmt.Sprintf("contrato-venda-%d.docx", saleID), nil)
}

// DownloadATPV fetches the ATPV transfer document for a sale.
func (c *Client) DownloadATPV(ctx context.Context, saleID int64) (Document, error) {
	return c.download(ctx, fmt.Sprintf("/sales/%d/atpv-docx", saleID), fmt.Sprintf("atpv-%d.docx", saleID), nil)
}
