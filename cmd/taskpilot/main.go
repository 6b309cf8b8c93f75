package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/taskpilot/client/api/gateway"
	"github.com/taskpilot/client/internal/config"
	"github.com/taskpilot/client/internal/services"
	"github.com/taskpilot/client/internal/services/lifecycle"
	"github.com/taskpilot/client/persist"
	"github.com/taskpilot/client/pkg/logger"
	"github.com/taskpilot/client/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	stateStore, err := persist.Open(cfg.Storage.Path)
	if err != nil {
		zapLogger.Fatal("failed to open state store", zap.Error(err))
	}
	manager.Register("state_store", func(ctx context.Context) error {
		return stateStore.Close()
	})

	api := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.RequestTimeout,
	}, zapLogger)

	authStore := store.NewAuthStore(api, stateStore.Purge, zapLogger)
	taskStore := store.NewTaskStore(api, zapLogger)

	// Restore before anything renders or dispatches, then start the
	// write-through observer so the rehydration itself is not echoed back.
	if err := persist.Restore(stateStore, authStore, taskStore); err != nil {
		zapLogger.Fatal("state restore failed", zap.Error(err))
	}
	autosave := persist.NewAutosave(stateStore, authStore, taskStore, zapLogger)
	autosave.Attach()

	janitor := services.NewJanitor(stateStore, zapLogger, services.JanitorConfig{
		Interval:  cfg.Storage.JanitorInterval,
		Retention: cfg.Storage.HistoryRetention,
	})
	if cfg.Storage.JanitorEnabled {
		if err := janitor.Prune(); err != nil {
			zapLogger.Warn("startup prune failed", zap.Error(err))
		}
	}

	app := &App{
		cfg:      cfg,
		logger:   zapLogger,
		auth:     authStore,
		tasks:    taskStore,
		state:    stateStore,
		autosave: autosave,
		janitor:  janitor,
		manager:  manager,
	}

	code := app.Run(appCtx, os.Args[1:])

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("shutdown finished with errors", zap.Error(err))
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: taskpilot <command> [flags]

commands:
  signup   register a new account
  login    exchange credentials for a session
  logout   clear the session and purge local state
  list     show tasks (filterable, paginated)
  add      create a task
  edit     replace a task's fields
  done     mark a task complete
  rm       delete a task
  status   show session and storage info
  shell    interactive mode`)
}
