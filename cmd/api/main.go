package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/rahullipl2023/assignafield/api/swagger"
	"github.com/rahullipl2023/assignafield/internal/dto"
	"github.com/rahullipl2023/assignafield/internal/handler"
	"github.com/rahullipl2023/assignafield/internal/middleware"
	"github.com/rahullipl2023/assignafield/internal/repository"
	"github.com/rahullipl2023/assignafield/internal/service"
	"github.com/rahullipl2023/assignafield/pkg/cache"
	"github.com/rahullipl2023/assignafield/pkg/config"
	"github.com/rahullipl2023/assignafield/pkg/database"
	"github.com/rahullipl2023/assignafield/pkg/jobs"
	"github.com/rahullipl2023/assignafield/pkg/logger"
	corsmiddleware "github.com/rahullipl2023/assignafield/pkg/middleware/cors"
	reqidmiddleware "github.com/rahullipl2023/assignafield/pkg/middleware/requestid"
)

// @title AssignAField API
// @version 1.0.0
// @description Practice-scheduling allocation engine for sports clubs
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	teamRepo := repository.NewTeamRepository(db)
	coachRepo := repository.NewCoachRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	statusRepo := repository.NewStatusRepository(redisClient, cfg.Scheduler.GeneratingTTL)

	metricsSvc := service.NewMetricsService()

	schedulerSvc := service.NewPracticeSchedulerService(
		teamRepo,
		coachRepo,
		fieldRepo,
		reservationRepo,
		scheduleRepo,
		slotRepo,
		statusRepo,
		metricsSvc,
		logr,
		service.PracticeSchedulerConfig{SolverPassBudget: cfg.Scheduler.SolverPassBudget},
	)

	queue := jobs.NewQueue("scheduler", func(ctx context.Context, job jobs.Job) error {
		switch job.Type {
		case jobs.TypeGenerateSchedules:
			payload, ok := job.Payload.(dto.GenerateSchedulesPayload)
			if !ok {
				logr.Error("generation job carries unexpected payload", zap.String("job_id", job.ID))
				return nil
			}
			return schedulerSvc.GenerateSchedules(ctx, payload.ClubID, payload.ReservationIDs)
		default:
			logr.Warn("unknown job type", zap.String("type", job.Type), zap.String("job_id", job.ID))
			return nil
		}
	}, jobs.QueueConfig{
		Workers:    cfg.Scheduler.QueueWorkers,
		BufferSize: cfg.Scheduler.QueueBuffer,
		Logger:     logr,
	})

	importSvc := service.NewReservationImportService(
		fieldRepo,
		reservationRepo,
		scheduleRepo,
		slotRepo,
		queue,
		logr,
		service.ReservationImportConfig{SheetName: cfg.Importer.SheetName, MaxRows: cfg.Importer.MaxRows},
	)
	querySvc := service.NewScheduleQueryService(scheduleRepo, statusRepo, logr)

	reservationHandler := handler.NewReservationHandler(importSvc, metricsSvc)
	scheduleHandler := handler.NewScheduleHandler(querySvc, queue)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Dates travel as plain ISO strings throughout the engine.
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01-02", fl.Field().String())
			return err == nil
		})
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	{
		api.POST("/clubs/:clubId/reservations/import", reservationHandler.Import)
		api.POST("/clubs/:clubId/schedules/generate", scheduleHandler.Generate)
		api.GET("/clubs/:clubId/schedules", scheduleHandler.List)
		api.GET("/clubs/:clubId/schedules/export", scheduleHandler.Export)
		api.GET("/clubs/:clubId/schedules/status", scheduleHandler.Status)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx)
	defer queue.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
