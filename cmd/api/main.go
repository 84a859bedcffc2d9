package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/appointly/appointly-api/api/swagger"
	"github.com/appointly/appointly-api/internal/handler"
	internalmiddleware "github.com/appointly/appointly-api/internal/middleware"
	"github.com/appointly/appointly-api/internal/repository"
	"github.com/appointly/appointly-api/internal/service"
	"github.com/appointly/appointly-api/pkg/cache"
	"github.com/appointly/appointly-api/pkg/config"
	"github.com/appointly/appointly-api/pkg/database"
	"github.com/appointly/appointly-api/pkg/logger"
	corsmiddleware "github.com/appointly/appointly-api/pkg/middleware/cors"
	reqidmiddleware "github.com/appointly/appointly-api/pkg/middleware/requestid"
)

// @title Appointly API
// @version 1.0.0
// @description Appointment slot generation and booking admission for a single-resource service business.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	serviceRepo := repository.NewServiceRepository(db)
	workingHourRepo := repository.NewWorkingHourRepository(db)
	breakPeriodRepo := repository.NewBreakPeriodRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	metricsSvc := service.NewMetricsService()
	catalogSvc := service.NewCatalogService(serviceRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(workingHourRepo, breakPeriodRepo, nil, logr, cfg.Booking.DefaultLocale)
	slotSvc := service.NewSlotService(serviceRepo, workingHourRepo, breakPeriodRepo, bookingRepo, metricsSvc, logr)
	bookingSvc := service.NewBookingService(bookingRepo, serviceRepo, nil, logr, metricsSvc, cfg.Booking.DefaultStatus)
	authSvc := service.NewAuthService(cfg.Auth, nil, logr)

	serviceHandler := handler.NewServiceHandler(catalogSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	bookingHandler := handler.NewBookingHandler(slotSvc, bookingSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)
		api.GET("/working-hours", scheduleHandler.ListWorkingHours)
		api.GET("/working-days", bookingHandler.WorkingDays)
		api.GET("/available-slots", bookingHandler.AvailableSlots)
		api.GET("/bookings", bookingHandler.List)

		create := api.Group("")
		if cfg.RateLimit.Enabled && redisClient != nil {
			limiter := internalmiddleware.NewRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window, logr)
			create.Use(limiter.Handler())
		}
		create.POST("/bookings", bookingHandler.Create)

		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("/admin", internalmiddleware.JWT(authSvc))
		{
			admin.POST("/services", serviceHandler.Create)
			admin.PUT("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)

			admin.POST("/working-hours", scheduleHandler.CreateWorkingHour)
			admin.PUT("/working-hours/:id", scheduleHandler.UpdateWorkingHour)
			admin.DELETE("/working-hours/:id", scheduleHandler.DeleteWorkingHour)
			admin.GET("/working-hours/:id/breaks", scheduleHandler.ListBreakPeriods)
			admin.POST("/working-hours/:id/breaks", scheduleHandler.CreateBreakPeriod)
			admin.PUT("/breaks/:id", scheduleHandler.UpdateBreakPeriod)
			admin.DELETE("/breaks/:id", scheduleHandler.DeleteBreakPeriod)

			admin.GET("/bookings", bookingHandler.List)
			admin.GET("/bookings/export", bookingHandler.Export)
			admin.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
			admin.DELETE("/bookings/:id", bookingHandler.Delete)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
