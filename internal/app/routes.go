package app

import (
	"log/slog"
	"net/http"
	"time"

	"todoassign/internal/cache"
	"todoassign/internal/config"
	"todoassign/internal/handlers"
	"todoassign/internal/ids"
	"todoassign/internal/lock"
	"todoassign/internal/metrics"
	"todoassign/internal/repo"
	"todoassign/internal/service"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// lockWait bounds how long a transition waits for another request on the same todo.
const lockWait = 2 * time.Second

type deps struct {
	repos    repo.Repos
	redis    *redis.Client
	registry *prom.Registry
	log      *slog.Logger
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, d deps) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/metrics", gin.WrapH(metrics.HTTPHandler(d.registry)))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api/v1")

	rec := metrics.NewPrometheusRecorder(d.registry)
	gen := ids.UUIDGenerator{}

	opts := []service.Option{
		service.WithRecorder(rec),
		service.WithLogger(d.log),
		service.WithAttempts(cfg.Todo.TransitionAttempts),
	}
	if d.redis != nil {
		opts = append(opts,
			service.WithCache(cache.NewTodoCache(d.redis, cfg.Redis.DefaultTTL.Duration())),
			service.WithLocker(lock.NewRedisLocker(d.redis, cfg.Redis.LockTTL.Duration(), lockWait)),
		)
	}
	todoSvc := service.NewTodoService(d.repos, gen, ids.SystemClock{}, opts...)
	registerTodoRoutes(api, handlers.NewTodoHandler(todoSvc))

	userSvc := service.NewUserService(d.repos.Users, gen, rec)
	registerUserRoutes(api, handlers.NewUserHandler(userSvc))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo assignment API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"storage": cfg.Storage.Driver,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/:todoId", h.GetByID)
	api.PUT("/todo/assignee", h.Assign)
	api.PUT("/todo/done", h.MarkDone)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.POST("/users", h.Create)
	api.GET("/users", h.List)
	api.GET("/users/:userId", h.GetByID)
}
