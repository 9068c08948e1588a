package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sekolah-adp/sekolah-adp/internal/app"
	"github.com/sekolah-adp/sekolah-adp/internal/attendance"
	"github.com/sekolah-adp/sekolah-adp/internal/auth"
	"github.com/sekolah-adp/sekolah-adp/internal/counseling"
	"github.com/sekolah-adp/sekolah-adp/internal/grades"
	"github.com/sekolah-adp/sekolah-adp/internal/observability"
	"github.com/sekolah-adp/sekolah-adp/internal/platform/cache"
	"github.com/sekolah-adp/sekolah-adp/internal/platform/db"
	"github.com/sekolah-adp/sekolah-adp/internal/policy"
	"github.com/sekolah-adp/sekolah-adp/internal/roster"
	"github.com/sekolah-adp/sekolah-adp/internal/shared"
	"github.com/sekolah-adp/sekolah-adp/internal/students"
	"github.com/sekolah-adp/sekolah-adp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "sekolah_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	metrics := observability.NewMetrics()

	rosterRepo := roster.NewRepository(dbpool)
	rosterCache := roster.NewCache(redisClient, cfg.RosterCacheTTL)
	rosterService := roster.NewService(rosterRepo, rosterCache)

	engine := policy.NewEngine(rosterService)
	guard := shared.Guard{Engine: engine, Metrics: metrics}
	policyMW := policy.Middleware{Engine: engine, Logger: logger}
	policyHandler := policy.NewHandler(logger, engine)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, rosterService)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)
	authMW := auth.Middleware{Service: authService, Logger: logger}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	studentsRepo := students.NewRepository(dbpool)
	studentsService := students.NewService(studentsRepo, guard, jobClient)
	studentsHandler := students.NewHandler(logger, studentsService, policyMW)

	gradesRepo := grades.NewRepository(dbpool)
	gradesService := grades.NewService(gradesRepo, guard, jobClient)
	gradesHandler := grades.NewHandler(logger, gradesService, policyMW)

	attendanceRepo := attendance.NewRepository(dbpool)
	attendanceService := attendance.NewService(attendanceRepo, guard)
	attendanceHandler := attendance.NewHandler(logger, attendanceService, policyMW)

	counselingRepo := counseling.NewRepository(dbpool)
	counselingService := counseling.NewService(counselingRepo, guard)
	counselingHandler := counseling.NewHandler(logger, counselingService, policyMW)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthMiddleware:    authMW,
		AuthHandler:       authHandler,
		StudentsHandler:   studentsHandler,
		GradesHandler:     gradesHandler,
		AttendanceHandler: attendanceHandler,
		CounselingHandler: counselingHandler,
		PolicyHandler:     policyHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
