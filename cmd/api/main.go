package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/orgpath"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance/internal/service/attendance"
	notificationService "github.com/cmlabs-hris/hris-attendance/internal/service/notification"
	scheduleService "github.com/cmlabs-hris/hris-attendance/internal/service/schedule"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		logger.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			logger.Error("Error applying schema", "error", err)
			os.Exit(1)
		}
		logger.Info("Database schema applied")
	}

	var redisClient redis.Cmdable
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, list cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			redisClient = client
		}
	} else {
		logger.Info("REDIS_ADDR not set, list cache disabled")
	}

	appMetrics := metrics.New()
	hub := sse.NewHub(16)
	redisCache := cache.NewRedisCache(redisClient, "hris:cache:", cfg.Redis.TTL)

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	legacyAttendanceRepo := postgresql.NewLegacyAttendanceRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	businessTripRepo := postgresql.NewBusinessTripRepository(db)
	sickLeaveRepo := postgresql.NewSickLeaveRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	notifier := notificationService.NewNotificationService(hub, logger)
	conflictValidator := attendanceService.NewConflictValidator(businessTripRepo, sickLeaveRepo, leaveRequestRepo, logger, appMetrics)
	latenessCalculator := attendanceService.NewLatenessCalculator(leaveRequestRepo, logger, appMetrics)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceService.Dependencies{
		Attendances:       attendanceRepo,
		LegacyAttendances: legacyAttendanceRepo,
		Profiles:          profileRepo,
		Schedules:         workScheduleRepo,
		Validator:         conflictValidator,
		Lateness:          latenessCalculator,
		Paths:             orgpath.NewGenerator("hris"),
		Invalidator:       cache.Chain{redisCache, notificationService.NewInvalidator(hub)},
		Notifier:          notifier,
		Cache:             redisCache,
		Metrics:           appMetrics,
		Location:          cfg.App.Location,
		Logger:            logger,
	})
	workingDaysSvc := scheduleService.NewWorkingDaysService(workScheduleRepo, holidayRepo, cfg.App.Location, logger)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	workingDaysHandler := appHTTP.NewWorkingDaysHandler(workingDaysSvc)
	eventHandler := appHTTP.NewEventHandler(hub, 30*time.Second)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Logger:         logger,
			LogLevel:       cfg.SlogLevel(),
		},
		JWTService,
		appMetrics,
		attendanceHandler,
		workingDaysHandler,
		eventHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
