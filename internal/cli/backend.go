package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"quizhub-service/internal/app"
	"quizhub-service/internal/config"
	"quizhub-service/internal/infra/memory"
	mongostore "quizhub-service/internal/infra/mongo"
	pgstore "quizhub-service/internal/infra/postgres"
	rediscache "quizhub-service/internal/infra/redis"
	transport "quizhub-service/internal/transport/http"
)

// backend bundles the stores selected by configuration.
type backend struct {
	quizzes app.QuizStore
	scores  app.ScoreStore
	users   app.UserStore
	checks  map[string]transport.HealthCheck
	closers []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the configured storage driver and puts a quiz cache
// in front of it: Redis when an address is configured, in-process otherwise.
func openBackend(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*backend, error) {
	b := &backend{checks: make(map[string]transport.HealthCheck)}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		b.quizzes = memory.NewQuizStore()
		b.scores = memory.NewScoreStore()
		b.users = memory.NewUserStore()

	case config.DriverPostgres:
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, err
		}
		pool, err := pgstore.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.checks["postgres"] = pool.Ping
		b.quizzes = pgstore.NewQuizStore(pool)
		b.scores = pgstore.NewScoreStore(pool)
		b.users = pgstore.NewUserStore(pool)

	case config.DriverMongo:
		if cfg.Mongo.URI == "" {
			return nil, fmt.Errorf("mongo uri not configured")
		}
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		})
		db := client.Database(cfg.Mongo.Database)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			b.Close()
			return nil, err
		}
		b.checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		b.quizzes = mongostore.NewQuizStore(db)
		b.scores = mongostore.NewScoreStore(db)
		b.users = mongostore.NewUserStore(db)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = client.Close() })
		cache := rediscache.NewQuizCache(client, b.quizzes, quizTTL, log)
		b.checks["redis"] = cache.Ping
		b.quizzes = cache
	} else {
		b.quizzes = memory.NewQuizCache(b.quizzes, quizTTL)
	}

	log.WithFields(logrus.Fields{
		"storage": cfg.Storage.Driver,
		"cache":   cacheKind(cfg),
	}).Info("storage ready")
	return b, nil
}

func cacheKind(cfg config.Config) string {
	if cfg.Redis.Addr != "" {
		return "redis"
	}
	return "memory"
}
