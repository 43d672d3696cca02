package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/config"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/handler"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/middleware"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/model/entity"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/repository"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/scheduler"
	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting fossil-energy-tracker service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(services.Report, &cfg.Scheduler, zapLogger)
		if err := sched.Start(); err != nil {
			zapLogger.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Project{},
		&entity.System{},
		&entity.Subsystem{},
		&entity.ITR{},
		&entity.Signature{},
		&entity.TestPack{},
		&entity.Tag{},
		&entity.ReportRecipient{},
		&entity.ReportSchedule{},
		&entity.ActivityLog{},
	)
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		// Authentication (no login required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// User administration (admin only)
			users := authorized.Group("/users")
			users.Use(middleware.RequireRole("admin"))
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Delete)
			}

			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.List)
				projects.POST("", h.Project.Create)
				projects.GET("/:id", h.Project.Get)
				projects.PUT("/:id", h.Project.Update)
				projects.DELETE("/:id", h.Project.Delete)
			}

			systems := authorized.Group("/systems")
			{
				systems.GET("", h.System.List)
				systems.POST("", h.System.Create)
				systems.GET("/:id", h.System.Get)
				systems.PUT("/:id", h.System.Update)
				systems.DELETE("/:id", h.System.Delete)
			}

			subsystems := authorized.Group("/subsystems")
			{
				subsystems.GET("", h.Subsystem.List)
				subsystems.POST("", h.Subsystem.Create)
				subsystems.GET("/:id", h.Subsystem.Get)
				subsystems.PUT("/:id", h.Subsystem.Update)
				subsystems.DELETE("/:id", h.Subsystem.Delete)
			}

			itrs := authorized.Group("/itrs")
			{
				itrs.GET("", h.ITR.List)
				itrs.POST("", h.ITR.Create)
				itrs.GET("/:id", h.ITR.Get)
				itrs.PUT("/:id", h.ITR.Update)
				itrs.DELETE("/:id", h.ITR.Delete)

				// Signature workflow
				itrs.POST("/:id/signatures", h.ITR.Sign)
				itrs.GET("/:id/signatures", h.ITR.ListSignatures)
				itrs.DELETE("/:id/signatures/:sigId", h.ITR.RevokeSignature)
			}

			testPacks := authorized.Group("/test-packs")
			{
				testPacks.GET("", h.TestPack.List)
				testPacks.POST("", h.TestPack.Create)
				testPacks.GET("/:id", h.TestPack.Get)
				testPacks.PUT("/:id", h.TestPack.Update)
				testPacks.DELETE("/:id", h.TestPack.Delete)

				testPacks.GET("/:id/tags", h.TestPack.ListTags)
				testPacks.POST("/:id/tags", h.TestPack.CreateTag)
				testPacks.POST("/:id/tags/:tagId/release", h.TestPack.ReleaseTag)
				testPacks.DELETE("/:id/tags/:tagId", h.TestPack.DeleteTag)
			}

			reports := authorized.Group("/reports")
			{
				reports.GET("/recipients", h.Report.ListRecipients)
				reports.POST("/recipients", middleware.RequireRole("admin"), h.Report.AddRecipient)
				reports.DELETE("/recipients/:id", middleware.RequireRole("admin"), h.Report.RemoveRecipient)
				reports.GET("/schedule", h.Report.GetSchedule)
				reports.PUT("/schedule", middleware.RequireRole("admin"), h.Report.UpdateSchedule)
				reports.POST("/tasks/run", middleware.RequireRole("admin"), h.Report.RunTask)
				reports.GET("/delays", h.Report.ScanDelays)
			}

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/summary", h.Dashboard.Summary)
				dashboard.GET("/alerts", h.Dashboard.Alerts)
			}

			authorized.GET("/export/:type", h.Export.Export)
		}
	}
}
