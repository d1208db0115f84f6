package app

import (
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/controller"
	"edusphere_backend/internal/repository"
	"edusphere_backend/internal/service"
	"edusphere_backend/pkg/configwatcher"
	"edusphere_backend/pkg/logger"
	"edusphere_backend/pkg/monitoring"
	"edusphere_backend/pkg/security"
	"edusphere_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config     *config.Config
	ConfigPath string
	Router     *gin.Engine
	Store      repository.Store
	State      *repository.StateRepository

	services        *services
	configCallbacks []func(*config.Config)
	closers         []func() error
	tracer          *sdktrace.TracerProvider

	ctx    context.Context
	cancel context.CancelFunc
}

type services struct {
	catalog  *service.CatalogService
	feedback *service.FeedbackService
	progress *service.ProgressService
}

type controllers struct {
	account   *controller.AccountController
	lesson    *controller.LessonController
	feedback  *controller.FeedbackController
	challenge *controller.ChallengeController
	group     *controller.GroupController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initServices(store *repository.StateRepository, cfg *config.Config) *services {
	catalog := service.NewCatalogService(time.Now)
	feedback := service.NewFeedbackService(nil, time.Now)
	progress := service.NewProgressService(store, catalog, feedback,
		service.WithPolicy(service.PolicyFromConfig(cfg.Progress)))

	return &services{
		catalog:  catalog,
		feedback: feedback,
		progress: progress,
	}
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		account:   controller.NewAccountController(s.progress, cfg.JWT),
		lesson:    controller.NewLessonController(s.progress),
		feedback:  controller.NewFeedbackController(s.progress),
		challenge: controller.NewChallengeController(s.progress),
		group:     controller.NewGroupController(s.progress),
		health:    controller.NewHealthController(a.Store, a.Store.Name()),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 监听配置文件变化，热更新进度规则
func (a *App) startBackgroundTasks() {
	if a.ConfigPath == "" {
		return
	}
	path := filepath.Join(a.ConfigPath, "config.yaml")
	go func() {
		if err := configwatcher.WatchConfig(a.ctx, path, a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.String("path", path), zap.Error(err))
		}
	}()
}

// NewApp 初始化日志、持久化后端和追踪，失败时直接退出
func NewApp(cfg *config.Config, configPath string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	ctx := context.Background()
	store, closeStore, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	logger.Log.Info("Store initialized", zap.String("driver", store.Name()))

	app := New(cfg, store)
	app.ConfigPath = configPath
	app.closers = append(app.closers, closeStore)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edusphere-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// New 基于已打开的存储组装服务和路由
func New(cfg *config.Config, store repository.Store) *App {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		Store:  store,
		State:  repository.NewStateRepository(store),
		ctx:    ctx,
		cancel: cancel,
	}

	services := app.initServices(app.State, cfg)
	app.services = services
	services.progress.LoadInitialState(ctx)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		services.progress.UpdatePolicy(service.PolicyFromConfig(newCfg.Progress))
	})

	controllers := app.initControllers(services, cfg)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinLogger("/metrics", "/api/health"))
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app
}

// Seed 为缺失的集合写入默认内容
func (a *App) Seed(ctx context.Context) error {
	seeded, err := a.services.catalog.Seed(ctx, a.State)
	if err != nil {
		return err
	}
	logger.Log.Info("Catalog seeded", zap.String("store", a.Store.Name()), zap.Strings("keys", seeded))
	return nil
}

func (a *App) Close() {
	a.cancel()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Log.Error("Failed to close resource", zap.Error(err))
		}
	}
}

func (a *App) Run() {
	a.startBackgroundTasks()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
