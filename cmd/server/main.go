package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/logging"
	"github.com/nfrund/bookreader/internal/server"
)

func main() {
	cfg := config.New()
	logging.New()

	s, err := server.New(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	if err := s.Start(cfg.GetServerAddr()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
