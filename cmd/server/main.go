package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/database"
	"github.com/prepnest/prepnest-backend/internal/handler"
	"github.com/prepnest/prepnest-backend/internal/logger"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/prepnest/prepnest-backend/internal/router"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
	"github.com/prepnest/prepnest-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PrepNest Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo)
	userService := service.NewUserService(userRepo, authService, log)
	catalogService := service.NewCatalogService(courseRepo, categoryRepo, orderRepo, log)
	cartService := service.NewCartService(cfg, courseRepo, rdb)
	orderService := service.NewOrderService(orderRepo, settingRepo, cartService, log)
	leadService := service.NewLeadService(leadRepo, log)
	questionService := service.NewQuestionService(questionRepo, rdb, log)
	interviewService := service.NewInterviewService(cfg, attemptRepo, questionRepo, rdb, log)
	monitorService := service.NewMonitorService(attemptRepo)
	settingService := service.NewSettingService(settingRepo, log)
	dashboardService := service.NewDashboardService(dashboardRepo)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, log),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Cart:      handler.NewCartHandler(cartService),
		Order:     handler.NewOrderHandler(orderService),
		Interview: handler.NewInterviewHandler(interviewService),
		WS:        handler.NewWSHandler(interviewService, log, cfg.AllowedOrigins),
		Question:  handler.NewQuestionHandler(questionService),
		Monitor:   handler.NewMonitorHandler(rdb, monitorService, log),
		Lead:      handler.NewLeadHandler(leadService),
		User:      handler.NewUserHandler(userService),
		Setting:   handler.NewSettingHandler(settingService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Media:     handler.NewMediaHandler(mediaService),
		System:    handler.NewSystemHandler(rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	answerWorker := worker.NewAnswerWorker(pool, rdb, log)
	proctorWorker := worker.NewProctorWorker(pool, rdb, log)
	resultWorker := worker.NewResultWorker(pool, rdb, log)

	go answerWorker.Start(workerCtx)
	go proctorWorker.Start(workerCtx)
	go resultWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Dispose live interview sessions so their timers stop cleanly.
	interviewService.Shutdown()

	// 3. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
