package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-cmis/pkg/objectstore/api"
	"github.com/tendant/simple-cmis/pkg/objectstore/config"
)

// ProcessConfig holds the settings of the server process itself. Repository
// settings are read by config.WithEnv.
type ProcessConfig struct {
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat       string        `env:"LOG_FORMAT" env-default:"text"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func main() {
	_ = godotenv.Load()

	var processConfig ProcessConfig
	if err := cleanenv.ReadEnv(&processConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read process configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(processConfig.LogLevel, processConfig.LogFormat)
	slog.SetDefault(logger)

	serverConfig, err := config.Load(config.WithEnv("CMIS_"))
	if err != nil {
		logger.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}

	store, err := serverConfig.BuildStore(logger)
	if err != nil {
		logger.Error("Failed to build object store", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: newRouter(api.NewHandler(store, logger), processConfig.RequestTimeout),
	}

	go func() {
		logger.Info("CMIS object store starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"repository_id", store.RepositoryID(),
			"root_folder_id", store.RootFolder().ID)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), processConfig.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}

func newRouter(handler *api.Handler, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", handler.Health)
	r.Mount("/api/v1", handler.Routes())

	return r
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
