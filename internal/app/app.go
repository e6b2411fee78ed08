package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boca_backend/internal/config"
	"boca_backend/internal/controller"
	"boca_backend/internal/middleware"
	"boca_backend/internal/repository"
	"boca_backend/internal/service"
	"boca_backend/internal/util"
	"boca_backend/pkg/configwatcher"
	"boca_backend/pkg/database"
	"boca_backend/pkg/lock"
	"boca_backend/pkg/logger"
	"boca_backend/pkg/monitoring"
	"boca_backend/pkg/security"
	"boca_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	// DB 在 memory 驱动下为 nil
	DB *gorm.DB
	// Redis 未启用时为 nil
	Redis *redis.Client

	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	// 后台协程（限流清理、配置监听）随 App 关闭
	ctx    context.Context
	cancel context.CancelFunc
}

type controllers struct {
	contest *controller.ContestController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// initContestStore 根据驱动选择存储，启用 Redis 时加缓存并使用分布式锁
func (a *App) initContestStore() (repository.ContestStore, lock.Locker) {
	var store repository.ContestStore
	if a.DB != nil {
		store = repository.NewContestRepository(a.DB)
	} else {
		store = repository.NewMemoryContestRepository()
	}

	if a.Redis == nil {
		return store, lock.NewLocalLocker()
	}
	cached := repository.NewCachedContestRepository(store, a.Redis, a.Config.Contest.CacheTTL())
	return cached, lock.NewRedisLocker(a.Redis, a.Config.Contest.LockTTL())
}

func (a *App) initControllers() *controllers {
	store, locker := a.initContestStore()
	contestService := service.NewContestService(store, locker, a.Config.Contest.CreateRetries)

	return &controllers{
		contest: controller.NewContestController(contestService),
		health:  controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 建立连接并注册路由。MigrateOnly 时只执行迁移，不创建路由
func NewApp(cfg *config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.Database.Driver == util.DriverMySQL {
		migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode, migrate)
		if err != nil {
			cancel()
			return nil, err
		}
		app.DB = db
	} else {
		logger.Log.Warn("Using in-memory contest storage, data is lost on restart")
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Redis = rdb
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.tracer = tp
	}

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, app.initControllers(), cfg)

	app.RegisterConfigCallback(logger.ApplyConfig)
	return app, nil
}

// Close 释放连接，可重复调用
func (a *App) Close() {
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracing.Shutdown(ctx, a.tracer); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	a.tracer = nil

	if a.Redis != nil {
		a.Redis.Close()
		a.Redis = nil
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
		a.DB = nil
	}
}

func (a *App) Run() error {
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.Config.Path != "" {
		go func() {
			if err := configwatcher.WatchConfig(a.ctx, a.Config.Path, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logger.Log.Info("Server exiting")
	return nil
}
