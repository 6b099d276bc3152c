package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/schoolpilot/schoolpilot-api/api/swagger"
	"github.com/schoolpilot/schoolpilot-api/internal/handler"
	"github.com/schoolpilot/schoolpilot-api/internal/middleware"
	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/internal/repository"
	"github.com/schoolpilot/schoolpilot-api/internal/service"
	"github.com/schoolpilot/schoolpilot-api/pkg/cache"
	"github.com/schoolpilot/schoolpilot-api/pkg/config"
	"github.com/schoolpilot/schoolpilot-api/pkg/database"
	"github.com/schoolpilot/schoolpilot-api/pkg/jobs"
	"github.com/schoolpilot/schoolpilot-api/pkg/logger"
	"github.com/schoolpilot/schoolpilot-api/pkg/mailer"
	corsmiddleware "github.com/schoolpilot/schoolpilot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/schoolpilot/schoolpilot-api/pkg/middleware/requestid"
)

// @title SchoolPilot API
// @version 1.0.0
// @description Multi-role academic records platform
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	// repositories
	accountRepo := repository.NewAccountRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient, cfg.Session.KeyPrefix)
	objectStore := repository.NewObjectStore(db)

	// mail dispatch
	var codeMailer mailer.Mailer
	if cfg.Mail.Enabled && cfg.Mail.SendgridKey != "" {
		codeMailer = mailer.NewSendgridMailer(cfg.Mail, logr)
	} else {
		codeMailer = mailer.NewConsoleMailer(logr)
	}
	mailQueue := jobs.NewQueue("mail", func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(service.CodePayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		if err := codeMailer.SendCode(ctx, payload.Account, payload.Code); err != nil {
			metricsSvc.ObserveMailJob("failed")
			return err
		}
		metricsSvc.ObserveMailJob("sent")
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.MaxRetries,
		Logger:     logr,
	})
	mailQueue.Start(ctx)
	defer mailQueue.Stop()

	// services
	sessionSvc := service.NewSessionService(sessionRepo, logr, cfg.Session)
	otpSvc := service.NewOTPService(accountRepo, logr, cfg.OTP)
	authSvc := service.NewAuthService(accountRepo, otpSvc, sessionSvc, mailQueue, validate, logr)
	gatewaySvc := service.NewGatewayService(objectStore, logr, cfg.Bulk.BatchSize)
	catalogSvc := service.NewCatalogService(catalogRepo, courseRepo, logr)
	registrationSvc := service.NewRegistrationService(studentRepo, catalogRepo, courseRepo, logr)
	recordSvc := service.NewRecordService(recordRepo, logr)
	projectSvc := service.NewProjectService(projectRepo, validate, logr)
	profileSvc := service.NewProfileService(accountRepo, logr)
	staffSvc := service.NewStaffService(staffRepo, courseRepo, catalogRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Deps{
		Sessions: sessionSvc,
		Accounts: accountRepo,
		Staff:    staffRepo,
		Students: studentRepo,

		StaffAuth:    handler.NewAuthHandler(authSvc, models.AccountKindStaff),
		StudentAuth:  handler.NewAuthHandler(authSvc, models.AccountKindStudent),
		Gateway:      handler.NewGatewayHandler(gatewaySvc),
		Catalog:      handler.NewCatalogHandler(catalogSvc),
		Registration: handler.NewRegistrationHandler(registrationSvc),
		Records:      handler.NewRecordHandler(recordSvc),
		Projects:     handler.NewProjectHandler(projectSvc),
		Profiles:     handler.NewProfileHandler(profileSvc),
		StaffAdmin:   handler.NewStaffHandler(staffSvc),
		Schedules:    handler.NewScheduleHandler(scheduleSvc),
		Health:       handler.NewHealthHandler(db, redisClient),

		Metrics:        metricsSvc,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
