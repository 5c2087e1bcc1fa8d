package main

import (
	"fmt"
	"log/slog"

	"github.com/smith3v/tg-word-tutor/pkg/agent"
	"github.com/smith3v/tg-word-tutor/pkg/config"
	"github.com/smith3v/tg-word-tutor/pkg/db"
	"github.com/smith3v/tg-word-tutor/pkg/llm"
	"github.com/smith3v/tg-word-tutor/pkg/logger"
	"github.com/smith3v/tg-word-tutor/pkg/progress"
	"github.com/smith3v/tg-word-tutor/pkg/verify"
	"github.com/smith3v/tg-word-tutor/pkg/vocab"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds the components every command shares.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *gorm.DB
	store   *vocab.Store
	tracker *progress.Tracker
	tutor   *agent.Tutor
}

func loadApp(cmd *cobra.Command) (*app, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(cfg)
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		log.Warn("logger configured with errors", "error", err)
	}

	gdb, err := db.Open(cfg.Database, cfg.Logging.GormLevel, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := vocab.NewStore(gdb, log)
	tracker := progress.NewTracker(gdb, log, progress.WithBatchSize(cfg.Tutor.UnlearnedBatch))

	verifyOpts := []verify.Option{
		verify.WithThreshold(cfg.Tutor.SimilarityThreshold),
		verify.WithTimeout(cfg.Tutor.SimilarityTimeout),
	}
	deps := agent.Deps{
		Store:     store,
		Tracker:   tracker,
		HintCount: cfg.Tutor.HintCount,
		Log:       log,
	}
	if cfg.OpenAI.Enabled() {
		client, err := llm.NewClient(cfg.OpenAI, log)
		if err != nil {
			return nil, fmt.Errorf("create llm client: %w", err)
		}
		verifyOpts = append(verifyOpts, verify.WithSimilarity(llm.NewEmbeddingSimilarity(client)))
		deps.Generator = client
	} else {
		log.Info("openai api key not set, using exact synonym matching and fixed replies")
	}
	deps.Verifier = verify.New(store, log, verifyOpts...)

	return &app{
		cfg:     cfg,
		log:     log,
		db:      gdb,
		store:   store,
		tracker: tracker,
		tutor:   agent.NewTutor(deps),
	}, nil
}

func (a *app) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
