package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodsafe_backend/internal/config"
	"foodsafe_backend/internal/controller"
	"foodsafe_backend/internal/repository"
	"foodsafe_backend/internal/service"
	"foodsafe_backend/pkg/database"
	"foodsafe_backend/pkg/logger"
	"foodsafe_backend/pkg/monitoring"
	"foodsafe_backend/pkg/security"
	"foodsafe_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	program     *repository.ProgramRepository
	session     *repository.SessionRepository
	attendance  *repository.AttendanceRepository
	quiz        *repository.QuizRepository
	submission  *repository.SubmissionRepository
	certificate *repository.CertificateRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	program     *service.ProgramService
	session     *service.SessionService
	quiz        *service.QuizService
	scoring     *service.ScoringService
	matrix      *service.MatrixService
	certificate *service.CertificateService
	storage     *service.StorageService
	export      *service.ExportService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	program     *controller.ProgramController
	session     *controller.SessionController
	quiz        *controller.QuizController
	matrix      *controller.MatrixController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		program:     repository.NewProgramRepository(db),
		session:     repository.NewSessionRepository(db),
		attendance:  repository.NewAttendanceRepository(db),
		quiz:        repository.NewQuizRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		certificate: repository.NewCertificateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)

	s.matrix = service.NewMatrixService(
		repos.program,
		repos.session,
		repos.attendance,
		repos.quiz,
		repos.submission,
		repos.certificate,
		rdb,
		time.Duration(cfg.Matrix.CacheTTLSeconds)*time.Second,
	)

	s.program = service.NewProgramService(repos.program, s.matrix)
	s.session = service.NewSessionService(repos.session, repos.attendance, repos.certificate, repos.program, s.matrix)
	s.quiz = service.NewQuizService(repos.quiz, repos.program, db, s.matrix)
	s.scoring = service.NewScoringService(repos.quiz, repos.submission, s.matrix)
	s.certificate = service.NewCertificateService(repos.certificate, repos.session, s.storage, s.matrix)
	s.export = service.NewExportService()

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		program:     controller.NewProgramController(s.program),
		session:     controller.NewSessionController(s.session),
		quiz:        controller.NewQuizController(s.quiz, s.scoring),
		matrix:      controller.NewMatrixController(s.matrix, s.export),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Release deployments migrate only when asked to; everywhere else the
	// schema follows the models automatically.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
	}
	if cfg.MigrateOnly {
		logger.Log.Info("Migrate-only run, exiting")
		os.Exit(0)
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
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("foodsafe-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
