package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noelyen/classtrack-api/api/swagger"
	"github.com/noelyen/classtrack-api/internal/handler"
	"github.com/noelyen/classtrack-api/internal/middleware"
	"github.com/noelyen/classtrack-api/internal/repository"
	"github.com/noelyen/classtrack-api/internal/service"
	"github.com/noelyen/classtrack-api/pkg/cache"
	"github.com/noelyen/classtrack-api/pkg/config"
	"github.com/noelyen/classtrack-api/pkg/database"
	"github.com/noelyen/classtrack-api/pkg/logger"
	corsmiddleware "github.com/noelyen/classtrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noelyen/classtrack-api/pkg/middleware/requestid"
)

// @title ClassTrack API
// @version 1.0.0
// @description Cram school administration: students, courses, weekly schedules, attendance and monthly reports.
// @BasePath /api/v1
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
	if cfg.Reports.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, cfg.Auth)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, courseRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, scheduleRepo, studentRepo, validate, logr)
	reportSvc := service.NewReportService(attendanceRepo, redisClient, cfg.Reports, metricsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, attendanceSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	courseHandler := handler.NewCourseHandler(courseSvc, scheduleSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	occurrenceHandler := handler.NewOccurrenceHandler(scheduleSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authorized := api.Group("", middleware.JWT(authSvc))

	api.GET("/students", studentHandler.List)
	api.GET("/students/:id", studentHandler.Get)
	api.GET("/students/:id/attendance", studentHandler.History)
	authorized.POST("/students", studentHandler.Create)
	authorized.POST("/students/:id/classes", studentHandler.AddClasses)
	authorized.DELETE("/students/:id", studentHandler.Delete)

	api.GET("/teachers", teacherHandler.List)
	api.GET("/teachers/:id", teacherHandler.Get)
	authorized.POST("/teachers", teacherHandler.Create)
	authorized.DELETE("/teachers/:id", teacherHandler.Delete)

	api.GET("/courses", courseHandler.List)
	api.GET("/courses/:id", courseHandler.Get)
	api.GET("/courses/:id/roster", enrollmentHandler.Roster)
	api.GET("/courses/:id/candidates", enrollmentHandler.Candidates)
	authorized.POST("/courses", courseHandler.Create)
	authorized.POST("/courses/:id/schedules", courseHandler.AddSchedule)
	authorized.PUT("/courses/:id/roster", enrollmentHandler.SetRoster)
	authorized.DELETE("/courses/:id", courseHandler.Delete)

	api.GET("/occurrences", occurrenceHandler.List)
	api.GET("/occurrences/today", occurrenceHandler.Today)

	authorized.POST("/attendance", attendanceHandler.Take)
	authorized.GET("/reports/monthly", reportHandler.Monthly)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
