package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/pelada/internal/api"
	"github.com/mcoot/pelada/internal/config"
	"github.com/mcoot/pelada/internal/factory"
	"github.com/mcoot/pelada/internal/mcpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build factory config from environment
	factoryCfg, err := factory.ConfigFromEnv(cfg, logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create application factory
	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Load player base. The server still starts so it can be reloaded later.
	if err := app.PlayerBase.Load(ctx); err != nil {
		logger.Warn("could not load player base",
			slog.String("path", cfg.PlayerBasePath),
			slog.String("error", err.Error()))
	}

	app.Admission.SetClosed(!cfg.RegistrationOpen)

	mcpServer := mcpserver.New(app.Admission, app.Balancer, logger)

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		PlayerBase: app.PlayerBase,
		Admission:  app.Admission,
		Balancer:   app.Balancer,
		MCPHandler: mcpServer.Handler(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/mcp", apiRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return
		}
	}

	logger.Info("server stopped")
}
