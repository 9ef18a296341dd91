// Package app wires stores, services and transports from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gradpath/internal/cache"
	"gradpath/internal/catalog"
	"gradpath/internal/config"
	"gradpath/internal/repository"
	"gradpath/internal/service"
	"gradpath/internal/transport/rest"
	"gradpath/internal/transport/ws"
	"gradpath/internal/wizard"
)

// App holds the wired components of the server
type App struct {
	Config *config.Config
	AI     *config.AIConfig
	Logger *zap.Logger

	AuthService        *service.AuthService
	WizardService      *service.WizardService
	Evaluator          *service.EvaluatorService
	ScholarshipService *service.ScholarshipService
	FeeService         *service.FeeService
	WSHub              *ws.Hub

	closers []func(context.Context) error
}

// NewLogger builds the process logger for the configured environment
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.IsDev() {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// New connects the configured stores and builds every service
func New(ctx context.Context, cfg *config.Config, ai *config.AIConfig, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, AI: ai, Logger: logger}
	if err := a.build(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg, ai, logger := a.Config, a.AI, a.Logger

	var (
		scholarships repository.ScholarshipRepo
		costs        repository.CostRepo
		documents    repository.DocumentRepo
		sessions     cache.SessionCache
		catalogDelay = service.Simulated(ai.Delays.Scholarships)
		feeDelay     = service.Simulated(ai.Delays.Fees)
	)

	switch cfg.CatalogStore {
	case config.StoreMongo:
		db, err := a.connectMongo(ctx)
		if err != nil {
			return err
		}
		scholarships = repository.NewScholarshipRepo(db)
		costs = repository.NewCostRepo(db)
		documents = repository.NewDocumentRepo(db)
		catalogDelay, feeDelay = nil, nil
	default:
		s, err := catalog.Scholarships()
		if err != nil {
			return err
		}
		c, err := catalog.UniversityCosts()
		if err != nil {
			return err
		}
		scholarships = repository.NewStaticScholarshipRepo(s)
		costs = repository.NewStaticCostRepo(c)
		documents = repository.NewMemoryDocumentRepo()
	}

	switch cfg.SessionStore {
	case config.StoreRedis:
		rdb, err := a.connectRedis(ctx)
		if err != nil {
			return err
		}
		sessions = cache.NewSessionCache(rdb, cfg.SessionTTL)
	default:
		sessions = cache.NewMemorySessionCache(cfg.SessionTTL)
	}

	forms, err := wizard.NewRegistry(wizard.SOPForm())
	if err != nil {
		return fmt.Errorf("invalid form definition: %w", err)
	}
	generator, err := service.NewGeneratorService(ctx, ai, logger)
	if err != nil {
		return err
	}

	a.WSHub = ws.NewHub(logger)
	a.closers = append(a.closers, func(context.Context) error {
		a.WSHub.Close()
		return nil
	})

	a.AuthService = service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	a.Evaluator = service.NewEvaluatorService(ai, logger)
	a.ScholarshipService = service.NewScholarshipService(scholarships, catalogDelay, logger)
	a.FeeService = service.NewFeeService(costs, feeDelay, logger)
	a.WizardService = service.NewWizardService(forms, sessions, documents, generator, a.AuthService, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.WizardService.SetBroadcaster(a.WSHub)

	logger.Info("components ready",
		zap.String("sessionStore", cfg.SessionStore),
		zap.String("catalogStore", cfg.CatalogStore),
		zap.Bool("evaluatorLive", ai.IsEvaluatorLive()),
		zap.Bool("generatorLive", ai.IsGeneratorLive()),
	)
	return nil
}

// Router builds the HTTP handler
func (a *App) Router() http.Handler {
	return rest.NewRouter(&rest.Container{
		Config:             a.Config,
		Logger:             a.Logger,
		AuthService:        a.AuthService,
		WizardService:      a.WizardService,
		Evaluator:          a.Evaluator,
		ScholarshipService: a.ScholarshipService,
		FeeService:         a.FeeService,
		WSHub:              a.WSHub,
	})
}

// Close waits for in-flight generations, then releases connections in
// reverse order of creation
func (a *App) Close(ctx context.Context) error {
	if a.WizardService != nil {
		done := make(chan struct{})
		go func() {
			a.WizardService.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			a.Logger.Warn("generations still running at shutdown")
		}
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// ConnectMongo opens the catalog database; shared with the seed tool
func ConnectMongo(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(name), nil
}

func (a *App) connectMongo(ctx context.Context) (*mongo.Database, error) {
	client, db, err := ConnectMongo(ctx, a.Config.MongoURI, a.Config.MongoDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Disconnect)
	a.Logger.Info("connected to MongoDB", zap.String("database", a.Config.MongoDB))
	return db, nil
}

func (a *App) connectRedis(ctx context.Context) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: a.Config.RedisAddr,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
	a.Logger.Info("connected to Redis", zap.String("addr", a.Config.RedisAddr))
	return rdb, nil
}
