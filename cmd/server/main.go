package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dveiculos/backoffice/internal/api/dealer"
	"github.com/dveiculos/backoffice/internal/api/handlers"
	"github.com/dveiculos/backoffice/internal/config"
	"github.com/dveiculos/backoffice/internal/screen"
	"github.com/dveiculos/backoffice/internal/state"
	"github.com/dveiculos/backoffice/internal/store"
	"github.com/dveiculos/backoffice/pkg/bus"
	"github.com/dveiculos/backoffice/pkg/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting D'Veículos back office", zap.String("port", cfg.ServerPort))

	// Dealer backend client; restore the session token if a previous run
	// left one behind.
	api := dealer.NewClient(cfg.DealerAPIURL, cfg.HTTPTimeout)
	if err := api.LoadTokenFile(cfg.TokenFile); err != nil {
		logger.Warn("No existing session token, login required", zap.Error(err))
	}

	// In-memory mirrors of the backend collections.
	vehicles := store.NewVehicles()
	clients := store.NewClients()
	sales := store.NewSales()

	eventBus := bus.New()

	wsHub := ws.NewHub(logger)
	go wsHub.Run()
	wsHub.AttachBus(eventBus)

	// Vehicle status machines; transitions are pushed to the browsers.
	machines := state.NewManager(func(vehicleID int64, from, to string) {
		logger.Info("Vehicle status changed",
			zap.Int64("vehicle_id", vehicleID),
			zap.String("from", from),
			zap.String("to", to))
		wsHub.BroadcastStatusVeiculo(vehicleID, from, to)
	})

	wsHub.SetInitDataProvider(func() interface{} {
		return map[string]interface{}{
			"veiculos": vehicles.All(),
			"clientes": clients.All(),
			"vendas":   sales.All(),
			"status":   machines.AllStatuses(),
		}
	})

	vehicleScreen := screen.NewVehicleScreen(logger, api, vehicles, clients, eventBus)
	clientScreen := screen.NewClientScreen(logger, api, clients, vehicles, eventBus)
	saleScreen := screen.NewSaleScreen(logger, api, sales, clients, vehicles, machines)

	// The clients tab listens for vehicle assignments for the whole session.
	clientScreen.Mount()
	defer clientScreen.Unmount()

	handler := handlers.NewHandler(
		logger,
		api,
		vehicleScreen,
		clientScreen,
		saleScreen,
		vehicles,
		clients,
		sales,
		machines,
		wsHub,
	)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Keep the session for the next run.
	if api.Token() != "" {
		if err := api.SaveTokenFile(cfg.TokenFile); err != nil {
			logger.Error("Failed to save session token", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}
