package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/hostprep"
	httpAdapter "github.com/aretw0/hostprep/pkg/adapters/http"
	"github.com/aretw0/hostprep/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// shutdownGrace bounds how long in-flight requests may take after a signal.
const shutdownGrace = 5 * time.Second

// Serve runs the status server until ctx is cancelled.
func Serve(ctx context.Context, opts Options, addr string) error {
	logger, err := createLogger(opts)
	if err != nil {
		return err
	}

	store, _, closeStore, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	// Runs are made by other processes; read the store on every scrape
	registry := prometheus.NewRegistry()
	registry.MustRegister(observability.NewReportCollector(store))

	handler := httpAdapter.NewHandler(&httpAdapter.Server{
		Store:   store,
		Version: hostprep.Version,
		Logger:  logger,
	}, registry)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(opts.stdout(), "Serving reports on %s", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		printSystemMessage(opts.stdout(), "Server stopped.")
		return nil
	}
}
