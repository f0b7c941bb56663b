// Copyright 2024 World Journey AI Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides the chat daemon for the World Journey travel
// assistant. It serves the chat and destination-search API and seeds the
// places database from the destination catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/worldjourney/travel-assistant/internal/alias"
	"github.com/worldjourney/travel-assistant/internal/cache"
	"github.com/worldjourney/travel-assistant/internal/catalog"
	"github.com/worldjourney/travel-assistant/internal/config"
	"github.com/worldjourney/travel-assistant/internal/engine"
	"github.com/worldjourney/travel-assistant/internal/genai"
	"github.com/worldjourney/travel-assistant/internal/optimizer"
	"github.com/worldjourney/travel-assistant/internal/relevance"
	"github.com/worldjourney/travel-assistant/internal/session"
	"github.com/worldjourney/travel-assistant/internal/storage"
)

const serviceVersion = "1.0.0"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "chatd",
		Short:        "World Journey travel assistant chat daemon",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (defaults to ./configs/config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the places database from the destination catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), configPath)
		},
	}

	rootCmd.AddCommand(serveCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	masked := cfg.MaskSensitiveValues()
	logger.Info("Configuration loaded",
		zap.String("service", "chatd"),
		zap.String("catalog_path", masked.Catalog.Path),
		zap.String("db_path", masked.Storage.DBPath),
		zap.String("openai_api_key", masked.OpenAI.APIKey),
		zap.Float64("fuzzy_cutoff", masked.Matching.FuzzyCutoff),
	)

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dependencies", zap.Error(err))
		return err
	}
	defer func() {
		if err := deps.store.Close(); err != nil {
			logger.Warn("Failed to close places store", zap.Error(err))
		}
	}()

	// Hot reload only surfaces config drift in the log; components keep the
	// values they were built with until restart.
	if err := config.WatchConfig(configPath, func(updated *config.Config) {
		logger.Info("Configuration file changed, restart to apply",
			zap.Float64("fuzzy_cutoff", updated.Matching.FuzzyCutoff),
			zap.Float64("refuse_below", updated.Relevance.RefuseBelow),
		)
	}); err != nil {
		logger.Warn("Configuration watch unavailable", zap.Error(err))
	}

	server := newServer(cfg, deps, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting chat daemon",
		zap.String("addr", addr),
		zap.Int("destinations", deps.index.Len()),
	)
	return server.run(addr)
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	destinations, err := catalog.LoadFile(cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}

	store, err := storage.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Seed(ctx, destinations); err != nil {
		return err
	}

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("Seeded places database",
		zap.String("db_path", cfg.Storage.DBPath),
		zap.Int("places", count),
	)
	return nil
}

// dependencies holds the wired components behind the HTTP surface.
type dependencies struct {
	index     *catalog.Index
	store     *storage.Store
	eng       *engine.Engine
	generator engine.Generator
}

func buildDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	destinations, err := catalog.LoadFile(cfg.Catalog.Path, logger)
	if err != nil {
		return nil, err
	}
	index := catalog.NewIndex(destinations, cfg.Matching.FuzzyCutoff)

	synonyms, err := alias.LoadSynonymsFile(cfg.Catalog.AliasesPath)
	if err != nil {
		// The assistant degrades to exact names without a synonym table.
		logger.Warn("Alias table unavailable, continuing without synonyms", zap.Error(err))
		synonyms = nil
	}
	resolver := alias.NewResolver(synonyms, alias.Options{
		MinSubstringLen: cfg.Matching.AliasMinSubstring,
		HighSimilarity:  cfg.Matching.AliasHighSimilarity,
		HighLead:        cfg.Matching.AliasHighLead,
		LowSimilarity:   cfg.Matching.AliasLowSimilarity,
		LowLead:         cfg.Matching.AliasLowLead,
	})

	store, err := storage.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	if count, err := store.Count(ctx); err == nil && count == 0 {
		if err := store.Seed(ctx, destinations); err != nil {
			logger.Warn("Failed to seed places database", zap.Error(err))
		}
	}

	// Known names feed both the relevance gate and the query optimizer.
	// Alias synonyms count as destination mentions so a bare nickname
	// passes the gate.
	names := make([]string, 0, len(destinations)+len(synonyms))
	for _, d := range destinations {
		names = append(names, d.Name)
	}
	for province, nicknames := range synonyms {
		names = append(names, province)
		names = append(names, nicknames...)
	}

	var generator engine.Generator
	client, err := genai.NewClient(cfg.OpenAI.APIKey, logger)
	if err != nil {
		// Without a generator the engine answers from the catalog and
		// templates only.
		logger.Warn("Generation disabled", zap.Error(err))
	} else {
		generator = client
	}

	eng := engine.New(
		engine.Policy{
			MaxMessageLength: cfg.Chat.MaxMessageLength,
			MaxSuggestions:   cfg.Chat.MaxSuggestions,
			RefuseBelow:      cfg.Relevance.RefuseBelow,
			CategoriesBelow:  cfg.Relevance.CategoriesBelow,
			DidYouMeanCutoff: cfg.Matching.DidYouMeanCutoff,
			Generation: genai.Options{
				Model:       cfg.OpenAI.Model,
				Temperature: float32(cfg.OpenAI.Temperature),
				MaxTokens:   cfg.OpenAI.MaxTokens,
				Timeout:     cfg.OpenAI.Timeout,
			},
		},
		resolver,
		index,
		relevance.NewScorer(relevance.DefaultKeywords(), names),
		optimizer.New(names),
		cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries),
		session.NewMemory(cfg.Session.MaxTurns, cfg.Session.ReplayWindow),
		generator,
		store,
		logger,
	)

	return &dependencies{
		index:     index,
		store:     store,
		eng:       eng,
		generator: generator,
	}, nil
}

// buildLogger creates a zap logger from the logging configuration.
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if cfg.Output == "file" {
		zapConfig.OutputPaths = []string{"chatd.log"}
		zapConfig.ErrorOutputPaths = []string{"chatd.log"}
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	return zapConfig.Build()
}
