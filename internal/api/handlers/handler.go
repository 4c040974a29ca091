// Package handlers is the gin surface serving the dashboard frontend. It
// translates HTTP into screen controller calls and maps the error taxonomy
// onto status codes: validation 422, remote failures 502, business rules
// 403, double submits 409.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/forms"
	"github.com/dveiculos/backoffice/internal/screen"
	"github.com/dveiculos/backoffice/internal/state"
	"github.com/dveiculos/backoffice/internal/store"
	"github.com/dveiculos/backoffice/pkg/ws"
)

// MsgSemVeiculo guides the user when a document needs an assigned vehicle.
const MsgSemVeiculo = "É necessário atribuir um veículo ao cliente primeiro!"

// Handler holds the screen controllers behind the HTTP surface.
type Handler struct {
	logger        *zap.Logger
	api           *dealer.Client
	vehicleScreen *screen.VehicleScreen
	clientScreen  *screen.ClientScreen
	saleScreen    *screen.SaleScreen
	vehicles      *store.Vehicles
	clients       *store.Clients
	sales         *store.Sales
	machines      *state.Manager
	wsHub         *ws.Hub
	upgrader      websocket.Upgrader
}

// NewHandler creates the handler.
func NewHandler(
	logger *zap.Logger,
	api *dealer.Client,
	vehicleScreen *screen.VehicleScreen,
	clientScreen *screen.ClientScreen,
	saleScreen *screen.SaleScreen,
	vehicles *store.Vehicles,
	clients *store.Clients,
	sales *store.Sales,
	machines *state.Manager,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:        logger,
		api:           api,
		vehicleScreen: vehicleScreen,
		clientScreen:  clientScreen,
		saleScreen:    saleScreen,
		vehicles:      vehicles,
		clients:       clients,
		sales:         sales,
		machines:      machines,
		wsHub:         wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)
		api.POST("/auth/criar-senha", h.CriarSenha)

		api.GET("/veiculos", h.ListVeiculos)
		api.POST("/veiculos", h.CreateVeiculo)
		api.PUT("/veiculos/:id", h.UpdateVeiculo)
		api.DELETE("/veiculos/:id", h.DeleteVeiculo)
		api.GET("/veiculos/status", h.StatusVeiculos)

		api.GET("/clientes", h.ListClientes)
		api.POST("/clientes", h.CreateCliente)
		api.PUT("/clientes/:id", h.UpdateCliente)
		api.DELETE("/clientes/:id", h.DeleteCliente)
		api.GET("/clientes/:id/procuracao", h.DownloadProcuracao)

		api.GET("/vendas", h.ListVendas)
		api.POST("/vendas", h.CreateVenda)
		api.PUT("/vendas/:id", h.UpdateVenda)
		api.DELETE("/vendas/:id", h.DeleteVenda)
		api.GET("/vendas/veiculos-disponiveis", h.VeiculosDisponiveis)
		api.GET("/vendas/:id/contrato", h.DownloadContrato)
		api.GET("/vendas/:id/atpv", h.DownloadATPV)
	}

	r.GET("/ws", h.HandleWebSocket)
	r.GET("/health", h.HealthCheck)
}

// corsMiddleware allows the dashboard frontend to call from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// writeError maps the error taxonomy to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		verr   *forms.ValidationError
		apiErr *dealer.APIError
	)

	switch {
	case errors.Is(err, dealer.ErrSemVeiculo):
		c.JSON(http.StatusForbidden, gin.H{"error": MsgSemVeiculo})
	case errors.Is(err, screen.ErrOcupado):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Message})
	case errors.As(err, &apiErr):
		h.logger.Error("Dealer API error", zap.Int("status", apiErr.StatusCode), zap.String("body", apiErr.Body))
		c.JSON(http.StatusBadGateway, gin.H{"error": apiErr.Body})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// writeDocument streams a generated .docx with its filename.
func writeDocument(c *gin.Context, doc dealer.Document) {
	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", doc.Content)
}

// HandleWebSocket upgrades the connection and hands it to the hub.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
