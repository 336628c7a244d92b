package server

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// waitForShutdown returns a channel that receives on interrupt or terminate.
func waitForShutdown() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	return quit
}

// Shutdown stops accepting requests and then releases every service.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down server")
	err := s.E.Shutdown(ctx)
	return errors.Join(err, s.Close(ctx))
}

// Close stops the modules, the screen loop and the event bus, and closes the
// database connection. Auth completions that arrive after the loop has ended
// are recorded by their controller but not delivered.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for _, m := range s.modules {
		if err := m.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.Loop.Stop()
	if s.cancel != nil {
		s.cancel()
	}
	if err := s.Bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.DB != nil {
		if err := s.DB.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
