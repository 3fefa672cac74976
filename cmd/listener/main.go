// Command listener tails container status changes published by the
// database trigger and logs them. It is the reference consumer for the
// notification channel.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/browseterm/browseterm-db/internal/config"
	"github.com/browseterm/browseterm-db/internal/listener"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

func main() {
	log := logger.New(logger.LevelFromEnv())
	if err := run(log); err != nil {
		log.Error("Listener failed: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	l, err := listener.New(ctx, cfg.Database.DSN(), func(ev listener.ContainerStatusEvent) {
		log.Info("Container %s (%s) moved %s -> %s", ev.Name, ev.ID, ev.OldStatus, ev.NewStatus)
	}, log)
	if err != nil {
		return err
	}
	return l.Run(ctx)
}
