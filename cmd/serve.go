package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/config"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/generation"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/handlers"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/metrics"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/sampling"
	"github.com/JaakkolaM/AI-UI-MOCKUP-CREATOR/internal/selector"
)

func newServeCmd() *cobra.Command {
	var (
		port      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the generation web server",
		Long: `Starts the HTTP API and the static drawing interface on the specified port.

Endpoints:
  POST /api/generate      product image from prompt, canvas and materials
  POST /api/generate-ui   HTML component snippet from prompt, canvas and references
  GET  /api/providers     configured providers
  GET  /api/presets       lighting and output size presets
  GET  /metrics           Prometheus metrics`,
		Example: `  # Start server on default port 8888
  mockup serve

  # Start server on custom port with JSON logs
  mockup serve --port 3000 --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(config.Env)

			collector := metrics.NewCollector("mockup")
			service, sel, err := newService(cfg, collector)
			if err != nil {
				return err
			}
			slog.Info("Providers configured", "available", sel.Available())

			handler := handlers.New(service, sel, staticDir)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/generate", handler.HandleGenerate)
			mux.HandleFunc("/api/generate-ui", handler.HandleGenerateUI)
			mux.HandleFunc("/api/providers", handler.HandleProviders)
			mux.HandleFunc("/api/presets", handler.HandlePresets)
			mux.Handle("/metrics", collector.Handler())
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.WithRequestLogging(mux, collector),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Mockup interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&staticDir, "static-dir", "static", "Directory served at /")

	return cmd
}

// newService wires the selector, sampling table and metrics into a generation
// service. collector may be nil.
func newService(cfg *config.Config, collector *metrics.Collector) (*generation.Service, *selector.Selector, error) {
	table := sampling.DefaultTable()
	if cfg.SamplingTablePath != "" {
		loaded, err := sampling.LoadTable(cfg.SamplingTablePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load sampling table: %w", err)
		}
		slog.Info("Loaded sampling table", "path", cfg.SamplingTablePath)
		table = loaded
	}

	sel := selector.New(cfg)
	service := generation.NewService(sel, cfg,
		generation.WithSamplingTable(table),
		generation.WithMetrics(collector),
	)
	return service, sel, nil
}
