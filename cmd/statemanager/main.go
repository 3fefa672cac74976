// Command statemanager reports and reconciles reference-table state.
//
//	statemanager status  print schema version and pending migrations
//	statemanager sync    reconcile subscription types and images
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/browseterm/browseterm-db/internal/app"
	"github.com/browseterm/browseterm-db/internal/migrations"
	"github.com/browseterm/browseterm-db/internal/repository/postgres"
	"github.com/browseterm/browseterm-db/internal/state"
	"github.com/browseterm/browseterm-db/pkg/logger"
)

func main() {
	log := logger.New(logger.LevelFromEnv())
	if len(os.Args) != 2 || (os.Args[1] != "status" && os.Args[1] != "sync") {
		fmt.Fprintln(os.Stderr, "usage: statemanager status|sync")
		os.Exit(1)
	}
	if err := run(log, os.Args[1]); err != nil {
		log.Error("State manager failed: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger, cmd string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		return err
	}
	defer a.Close()

	pool, err := postgres.NewPool(ctx, a.Config.Database.DSN(), log)
	if err != nil {
		return err
	}
	defer pool.Close()

	manager := state.NewManager(
		postgres.NewSubscriptionTypeRepository(pool, log),
		postgres.NewImageRepository(pool, log),
		a.Engine,
		a.Client,
		a.Config.StatesDir,
		log,
	)

	switch cmd {
	case "status":
		report, err := manager.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("schema version: %d\n", report.Version)
		fmt.Printf("applied migrations: %d\n", report.Applied)
		if len(report.Pending) == 0 {
			fmt.Println("pending migrations: none")
		} else {
			fmt.Println("pending migrations:")
			for _, name := range report.Pending {
				fmt.Printf("  %s\n", name)
			}
		}
		for _, table := range migrations.Tables {
			if n, ok := report.RowCounts[table]; ok {
				fmt.Printf("%s: %d row(s)\n", table, n)
			}
		}
	case "sync":
		if err := manager.Sync(ctx); err != nil {
			return err
		}
		log.Info("Reference tables synced")
	}
	return nil
}
