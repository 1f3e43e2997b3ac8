package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"todoassign/internal/config"
	"todoassign/internal/logfields"
	"todoassign/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg      config.Config
	log      *slog.Logger
	pool     *pgxpool.Pool
	sqlite   *sql.DB
	redis    *redis.Client
	registry *prom.Registry
	router   *gin.Engine
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, log: log}

	repos, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		log.Info("redis connected", logfields.Addr(cfg.Redis.Addr))
	} else {
		log.Info("redis not configured, cache and todo locks disabled")
	}

	a.registry = prom.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.router = newRouter(cfg, deps{
		repos:    repos,
		redis:    a.redis,
		registry: a.registry,
		log:      log,
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			return fmt.Errorf("close sqlite: %w", err)
		}
	}
	return nil
}

func (a *App) openStorage(ctx context.Context) (repo.Repos, error) {
	driver := a.cfg.Storage.Driver
	a.log.Info("opening storage", logfields.Driver(driver))
	switch driver {
	case config.DriverPostgres:
		pool, err := newPostgres(ctx, a.cfg.Storage.DSN)
		if err != nil {
			return repo.Repos{}, err
		}
		a.pool = pool
		if err := repo.MigratePostgres(ctx, a.cfg.Storage.DSN); err != nil {
			pool.Close()
			return repo.Repos{}, err
		}
		return repo.NewPGRepos(pool), nil
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(ctx, a.cfg.Storage.SQLitePath)
		if err != nil {
			return repo.Repos{}, err
		}
		a.sqlite = db
		return repo.NewSQLiteRepos(db), nil
	case config.DriverMemory:
		return repo.NewMemoryStore().Repos(), nil
	}
	return repo.Repos{}, fmt.Errorf("unknown storage driver %q", driver)
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func newRouter(cfg config.Config, d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:  cfg.HTTP.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 || slices.Contains(corsCfg.AllowOrigins, "*") {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	Setup(r, cfg, d)
	return r
}
