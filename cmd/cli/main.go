package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dvolkovs/fileshare/internal/client/cli"
	"github.com/dvolkovs/fileshare/internal/client/config"
	"github.com/dvolkovs/fileshare/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
