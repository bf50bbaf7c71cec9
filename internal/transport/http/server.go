package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"excel-analytics/internal/access"
	appsvc "excel-analytics/internal/app"
	"excel-analytics/internal/bootstrap"
	"excel-analytics/internal/cache"
	"excel-analytics/internal/platform/rabbitmq"
	"excel-analytics/internal/repository"
	"excel-analytics/internal/transport/http/handler"
	"excel-analytics/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger), middleware.Metrics(), gin.Recovery())
	router.MaxMultipartMemory = app.Config.MaxUploadBytes()

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authService := appsvc.NewAuthService(
		repository.NewUserRepository(app.DB),
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Auth.AllowAdminSignup,
	)

	var historyCache appsvc.HistoryCache
	if app.Redis != nil {
		historyCache = cache.NewHistoryCache(
			app.Redis,
			time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
			5*time.Second,
		)
	}
	var cleaner appsvc.FileCleaner
	if app.MQConn != nil {
		cleaner = rabbitmq.NewCleanupPublisher(app.MQConn, app.Config.RabbitMQ.FileCleanupQueue)
	}
	uploadService := appsvc.NewUploadService(
		repository.NewRepositories(app.DB),
		app.Files,
		cleaner,
		historyCache,
		app.Logger,
	)

	authHandler := handler.NewAuthHandler(authService)
	uploadHandler := handler.NewUploadHandler(uploadService, app.Config.MaxUploadBytes())
	projectionHandler := handler.NewProjectionHandler(uploadService)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)
	rolesRequired := middleware.RequireRoles(string(access.RoleUser), string(access.RoleAdmin))

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authRequired, authHandler.Me)

	protected := v1.Group("")
	protected.Use(authRequired, rolesRequired)
	protected.GET("/dashboard", handler.Dashboard)
	protected.POST("/uploads", uploadHandler.Upload)
	protected.GET("/uploads", uploadHandler.ListHistory)
	protected.GET("/uploads/:id/dataset", uploadHandler.GetDataset)
	protected.DELETE("/uploads/:id", uploadHandler.Delete)
	protected.POST("/projections", projectionHandler.Project)

	return router
}
