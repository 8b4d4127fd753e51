package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/legastream/legastream/internal/analysis"
	"github.com/legastream/legastream/internal/config"
	"github.com/legastream/legastream/internal/database"
	"github.com/legastream/legastream/internal/document"
	"github.com/legastream/legastream/internal/llm"
	"github.com/legastream/legastream/internal/queue"
	"github.com/legastream/legastream/internal/queue/workers"
	"github.com/legastream/legastream/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStorage(cfg.Storage.UploadsDir)
	if err != nil {
		slog.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(cfg.AI)
	docSvc := document.NewService(db, store)
	analysisSvc := analysis.NewService(db, gateway,
		cfg.Storage.UploadsDir, cfg.Storage.DocumentsDir, cfg.AI.Strategy, logger)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	analyzeWorker := workers.NewAnalyzeWorker(docSvc, analysisSvc)
	registry.Register(queue.TypeDocumentAnalyze, asynq.HandlerFunc(analyzeWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10, "ai_provider", cfg.AI.Provider)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
