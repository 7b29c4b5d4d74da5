package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agyouthrise/rise-backend/internal/changefeed"
	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/internal/database"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/store"
	pkglogger "github.com/agyouthrise/rise-backend/pkg/logger"
	pkgredis "github.com/agyouthrise/rise-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		config.LoadDotEnv()
		// 로그는 stderr로 (stdout is for tables and JSON)
		pkglogger.SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.WarnLevel)

		path := config.Path()
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// withStore opens the content store for the duration of fn. With Redis
// configured the store joins the shared change feed, so watch sees writes
// made by the API servers.
func (c *commandContext) withStore(ctx context.Context, fn func(*store.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database, gormlogger.Silent)
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer database.Close(db) //nolint:errcheck

	var redisClient *redis.Client
	var feed changefeed.Feed = changefeed.NewLocalFeed()
	if cfg.RedisEnabled() {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: 2,
		})
		if err != nil {
			pkglogger.Warn("redis unavailable, changes from other processes will not be seen: %v", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			if rf, err := changefeed.NewRedisFeed(ctx, redisClient); err == nil {
				feed = rf
			}
		}
	}

	client := store.New(db, feed, store.OptionsFromConfig(cfg.Store))
	defer client.Close() //nolint:errcheck
	if err := client.Init(ctx); err != nil {
		return err
	}
	return fn(client)
}

func parseKind(arg string) (domain.Kind, error) {
	kind, ok := domain.ParseKind(arg)
	if !ok {
		return "", fmt.Errorf("unknown collection %q (want blogs, podcasts or gallery)", arg)
	}
	return kind, nil
}
