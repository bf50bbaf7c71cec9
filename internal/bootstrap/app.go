package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"excel-analytics/internal/config"
	"excel-analytics/internal/pkg/logger"
	"excel-analytics/internal/platform/database"
	rabbitmqClient "excel-analytics/internal/platform/rabbitmq"
	redisClient "excel-analytics/internal/platform/redis"
	"excel-analytics/internal/storage"
	"excel-analytics/internal/worker"
)

// App holds the long-lived resources shared by the HTTP layer. Redis and
// RabbitMQ are optional; their fields stay nil when disabled in config.
type App struct {
	Config        *config.Config
	Logger        zerolog.Logger
	DB            *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	Files         *storage.LocalStore
	CleanupWorker *worker.FileCleanupWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	log := logger.New(cfg.App.Name, cfg.App.Env, cfg.Log.Level)

	app := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
	}

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DSN(), database.PoolConfig{
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute,
	})
	if err != nil {
		return nil, err
	}
	app.DB = db
	if err := database.Migrate(db); err != nil {
		_ = app.Close()
		return nil, err
	}

	files, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Files = files

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, redisClient.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.Redis = redisCli
	} else {
		log.Info().Msg("redis disabled, upload history is read from the database")
	}

	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.FileCleanupQueue)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.MQConn = mqConn

		cleanupWorker := worker.NewFileCleanupWorker(mqConn, files, cfg.RabbitMQ.FileCleanupQueue, log)
		if err := cleanupWorker.Start(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("start file cleanup worker failed: %w", err)
		}
		app.CleanupWorker = cleanupWorker
	} else {
		log.Info().Msg("rabbitmq disabled, stored files are removed inline")
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.CleanupWorker != nil {
		a.CleanupWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
