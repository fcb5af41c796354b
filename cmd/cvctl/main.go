// Command cvctl runs operator tasks against the CV store and the API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/captainminh1999/my-webspace-sub000/internal/config"
	"github.com/captainminh1999/my-webspace-sub000/internal/logging"
)

const usage = `usage: cvctl <command> [flags]

commands:
  migrate        load <section>.json data files into the store
  push-widget    replace one widget's data from a JSON file
  upload         send a CSV file to the upload endpoint
  deploy-status  print the latest site deploy
`

type command func(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error

var commands = map[string]command{
	"migrate":       runMigrate,
	"push-widget":   runPushWidget,
	"upload":        runUpload,
	"deploy-status": runDeployStatus,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[2:]); err != nil {
		logger.Error(os.Args[1]+" failed", "error", err)
		stop()
		os.Exit(1)
	}
}
