package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weihan/ordertask-api/internal/config"
	"github.com/weihan/ordertask-api/internal/domain"
	"github.com/weihan/ordertask-api/internal/extraction"
	"github.com/weihan/ordertask-api/internal/notify"
	"github.com/weihan/ordertask-api/internal/platform/gemini"
	"github.com/weihan/ordertask-api/internal/platform/logger"
	"github.com/weihan/ordertask-api/internal/store"
	"github.com/weihan/ordertask-api/internal/task"
)

// application holds the process-scoped components, wired together once
// at startup and passed by reference everywhere. There are no ambient
// globals; everything reachable from a request goes through here.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	store    *store.MemoryTaskStore
	notifier *notify.CallbackNotifier
	executor *task.Executor
}

// initializeApp loads configuration, sets up logging, and builds the
// component graph: store, notifier, model generator, handler registry,
// executor.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"callback_configured", cfg.Callback.BaseURL != "",
		"auth_configured", cfg.Auth.APIKey != "")

	taskStore := store.NewMemoryTaskStore(log)

	notifier := notify.NewCallbackNotifier(notify.Config{
		BaseURL: cfg.Callback.BaseURL,
		APIKey:  cfg.Callback.APIKey,
		Timeout: time.Duration(cfg.Callback.TimeoutSeconds) * time.Second,
	}, log)

	generator, err := gemini.NewGeminiGenerator(ctx, log, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	registry := task.NewRegistry()
	registry.Register(domain.TaskTypeTextExtraction,
		extraction.NewHandlerFactory(cfg.LLM.ModelName))

	executor := task.NewExecutor(registry, taskStore, notifier, task.HandlerDeps{
		Generator: generator,
	}, log)

	return &application{
		config:   cfg,
		logger:   log,
		store:    taskStore,
		notifier: notifier,
		executor: executor,
	}, nil
}

// cleanup drains in-flight work before the process exits: dispatched
// tasks first, then their pending callback deliveries.
func (app *application) cleanup() {
	app.logger.Info("draining in-flight tasks")
	app.executor.Wait()
	app.notifier.Wait()
	app.logger.Info("cleanup completed")
}
