package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/metrics"
	"github.com/hpungsan/bridgeai/internal/ops"
	"github.com/hpungsan/bridgeai/internal/store"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(deps *ops.Deps, logger zerolog.Logger, version, addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(deps, logger, version),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Serve runs the daemon until ctx is cancelled, then shuts down gracefully.
// While it runs, a sweep removes the pending payload once it outlives the TTL.
func Serve(ctx context.Context, deps *ops.Deps, logger zerolog.Logger, version string) error {
	if deps.Config.StoreBackend == store.BackendRemote {
		return errors.NewInvalidRequest("the daemon cannot use the remote store backend")
	}

	srv := NewServer(deps, logger, version, deps.Config.ListenAddr)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go deps.Payloads.RunExpiry(sweepCtx, deps.Config.ExpiryInterval(), metrics.PayloadsExpired.Inc)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("backend", deps.Config.StoreBackend).
			Msg("starting bridge daemon")
		if strings.HasPrefix(srv.Addr, "0.0.0.0") || strings.HasPrefix(srv.Addr, ":") {
			logger.Warn().Msg("daemon is binding to all interfaces and may be reachable from the network")
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down daemon...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("daemon stopped")
	return nil
}
