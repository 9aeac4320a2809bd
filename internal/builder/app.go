package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App owns the HTTP server, the database pool and the root logger, and
// runs them until a shutdown signal or a listener error.
type App struct {
	server *http.Server
	db     *pgxpool.Pool
	logger *zap.Logger
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM arrives or
// the listener fails, then shuts down gracefully.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("knowledge backend listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("HTTP server failed", zap.Error(err))
		return err
	case sig := <-sigChan:
		a.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

// shutdown drains in-flight requests before releasing the pool.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("stopping HTTP server")
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
		return err
	}

	if a.db != nil {
		a.logger.Info("closing database pool")
		a.db.Close()
	}

	a.logger.Info("knowledge backend stopped")
	return nil
}
