package app

import (
	"context"

	"github.com/bbqjam05/pwd-week6-server/internal/config"
	"github.com/bbqjam05/pwd-week6-server/internal/db"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"
	"github.com/bbqjam05/pwd-week6-server/internal/redis"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(); err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return &Infra{
		DB:    database,
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	dbErr := i.DB.Close()
	redisErr := i.Redis.Close()
	if dbErr != nil {
		return dbErr
	}
	return redisErr
}
