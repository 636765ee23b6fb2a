package app

import (
	"baggage_quiz_backend/internal/config"
	"baggage_quiz_backend/internal/controller"
	"baggage_quiz_backend/internal/repository"
	"baggage_quiz_backend/internal/service"
	"baggage_quiz_backend/pkg/configwatcher"
	"baggage_quiz_backend/pkg/database"
	"baggage_quiz_backend/pkg/logger"
	"baggage_quiz_backend/pkg/monitoring"
	"baggage_quiz_backend/pkg/security"
	"baggage_quiz_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user     *repository.UserRepository
	level    *repository.LevelRepository
	question *repository.QuestionRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	quiz       *service.QuizService
	level      *service.LevelService
	question   *service.QuestionService
	statistics *service.StatisticsService

	attemptStore service.LoginAttemptStore
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	quiz       *controller.QuizController
	level      *controller.LevelController
	question   *controller.QuestionController
	statistics *controller.StatisticsController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		level:    repository.NewLevelRepository(db),
		question: repository.NewQuestionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	window := time.Duration(cfg.LoginGuard.WindowMinutes) * time.Minute
	if cfg.LoginGuard.Store == "redis" {
		s.attemptStore = service.NewRedisAttemptStore(rdb, window)
	} else {
		s.attemptStore = service.NewMemoryAttemptStore(window)
	}
	guard := service.NewLoginGuard(s.attemptStore, cfg.LoginGuard.MaxFailures, window)

	s.auth = service.NewAuthService(repos.user, guard, cfg)
	s.user = service.NewUserService(repos.user)
	s.quiz = service.NewQuizService(repos.user, repos.level, repos.question)
	s.level = service.NewLevelService(repos.level, repos.question)
	s.question = service.NewQuestionService(repos.question, repos.level)
	s.statistics = service.NewStatisticsService(repos.user, repos.level, repos.question, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		quiz:       controller.NewQuizController(s.quiz),
		level:      controller.NewLevelController(s.level),
		question:   controller.NewQuestionController(s.question),
		statistics: controller.NewStatisticsController(s.statistics),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 内存限流表定期清理过期条目
	if store, ok := s.attemptStore.(*service.MemoryAttemptStore); ok {
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			for range ticker.C {
				store.Cleanup()
			}
		}()
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("baggage-quiz", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// 配置文件热更新，变更推给已注册的回调
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		logger.Log.Info("config reloaded")
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
	})

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
