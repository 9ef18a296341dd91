package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"gradpath/internal/app"
	"gradpath/internal/catalog"
	"gradpath/internal/config"
	"gradpath/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := app.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo", zap.Error(err))
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck

	if err := seed(ctx, repository.NewScholarshipRepo(db), repository.NewCostRepo(db), logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("seed complete", zap.String("database", cfg.MongoDB))
}

func seed(ctx context.Context, scholarships repository.ScholarshipRepo, costs repository.CostRepo, logger *zap.Logger) error {
	records, err := catalog.Scholarships()
	if err != nil {
		return err
	}
	for i := range records {
		if err := scholarships.Upsert(ctx, &records[i]); err != nil {
			return err
		}
	}
	logger.Info("scholarships upserted", zap.Int("count", len(records)))

	universities, err := catalog.UniversityCosts()
	if err != nil {
		return err
	}
	for i := range universities {
		if err := costs.Upsert(ctx, &universities[i]); err != nil {
			return err
		}
	}
	logger.Info("university costs upserted", zap.Int("count", len(universities)))
	return nil
}
