// Command upgrade manages schema migrations.
//
//	upgrade <message>         scaffold a new migration pair, then apply pending
//	upgrade create <message>  scaffold only
//	upgrade upgrade           apply pending only
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/browseterm/browseterm-db/internal/app"
	"github.com/browseterm/browseterm-db/internal/migrate"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: upgrade <message> | upgrade create <message> | upgrade upgrade")
}

func main() {
	log := logger.New(logger.LevelFromEnv())
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	if err := run(log, os.Args[1:]); err != nil {
		log.Error("Upgrade failed: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		scaffoldMsg string
		apply       bool
	)
	switch args[0] {
	case "create":
		if len(args) < 2 {
			usage()
			return fmt.Errorf("create requires a message")
		}
		scaffoldMsg = strings.Join(args[1:], " ")
	case "upgrade":
		apply = true
	default:
		scaffoldMsg = strings.Join(args, " ")
		apply = true
	}

	a, err := app.New(ctx, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if scaffoldMsg != "" {
		// Number past both the active source and the applied schema so a
		// fresh on-disk directory never collides with embedded versions.
		floor := a.Source.MaxVersion()
		if version, err := a.Engine.Version(ctx); err == nil && version > floor {
			floor = version
		}
		upPath, downPath, err := migrate.Scaffold(a.Config.MigrationsDir, scaffoldMsg, floor)
		if err != nil {
			return err
		}
		log.Info("Created %s", upPath)
		log.Info("Created %s", downPath)
		if apply {
			// Pick up the scaffolded pair before applying.
			a, err = app.New(ctx, log)
			if err != nil {
				return err
			}
			defer a.Close()
		}
	}
	if !apply {
		return nil
	}

	pending, err := a.Engine.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		log.Info("Schema already up to date")
		return nil
	}
	if err := a.Engine.Up(ctx); err != nil {
		return err
	}
	version, err := a.Engine.Version(ctx)
	if err != nil {
		return err
	}
	log.Info("Applied %d migration(s), now at version %d", len(pending), version)
	return nil
}
