package server

import (
	"context"
	"time"
)

const shutdownGrace = 5 * time.Second

// ListenAndServe binds, serves, and shuts down gracefully once ctx is done.
// A bind failure is returned as *BindError before anything is served.
func ListenAndServe(ctx context.Context, cfg Config) error {
	l, err := Start(cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Serve()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := l.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
