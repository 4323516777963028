package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-board-api/internal/client"
	"task-board-api/internal/handler"
	"task-board-api/internal/metrics"
	"task-board-api/internal/middleware"
	"task-board-api/internal/repository"
	"task-board-api/internal/service"
)

// Config holds all dependencies needed to set up the router
type Config struct {
	DB             *gorm.DB
	RedisClient    *redis.Client
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	Metrics        *metrics.Metrics
	StorageClient  client.StorageClientInterface
	UnreadCacheTTL time.Duration
}

// Setup creates and configures the gin router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS())
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Repositories
	cardRepo := repository.NewCardRepository(cfg.DB)
	subTaskRepo := repository.NewSubTaskRepository(cfg.DB)
	commentRepo := repository.NewCommentRepository(cfg.DB)
	readStatusRepo := repository.NewReadStatusRepository(cfg.DB)
	notificationRepo := repository.NewNotificationRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, cardRepo, cfg.RedisClient, cfg.UnreadCacheTTL, cfg.Logger)
	readStatusService := service.NewReadStatusService(readStatusRepo, commentRepo, subTaskRepo, cfg.RedisClient, cfg.UnreadCacheTTL, cfg.Logger)
	cardService := service.NewCardService(cardRepo, subTaskRepo, readStatusService, notificationService)
	subTaskService := service.NewSubTaskService(subTaskRepo, cardRepo, commentRepo, readStatusService)
	commentService := service.NewCommentService(commentRepo, subTaskRepo, userRepo, notificationService, readStatusService, cfg.Logger)
	collaboratorService := service.NewCollaboratorService(cardRepo, userRepo)

	// Handlers
	cardHandler := handler.NewCardHandler(cardService)
	subTaskHandler := handler.NewSubTaskHandler(subTaskService, readStatusService)
	commentHandler := handler.NewCommentHandler(commentService, cfg.StorageClient)
	collaboratorHandler := handler.NewCollaboratorHandler(collaboratorService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Health and metrics at root path (for k8s probes and Prometheus scraping)
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes under the configured base path
	api := r.Group(cfg.BasePath)

	// Health and metrics also under base path (for ingress-routed access)
	if cfg.BasePath != "" {
		api.GET("/health", handler.HealthCheck)
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Swagger documentation
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Authenticated routes
	auth := api.Group("")
	auth.Use(middleware.Auth(cfg.JWTSecret))
	{
		auth.GET("/dashboard", cardHandler.GetDashboard)

		board := auth.Group("/board")
		{
			board.GET("", cardHandler.GetBoard)
			board.POST("", cardHandler.CreateCard)
			board.GET("/:cardId", cardHandler.GetCard)
			board.PUT("/:cardId", cardHandler.UpdateCard)
			board.DELETE("/:cardId", cardHandler.DeleteCard)
			board.PUT("/:cardId/close", cardHandler.CloseCard)

			board.POST("/:cardId/subtasks", subTaskHandler.AddSubTask)
			board.PUT("/:cardId/subtasks", subTaskHandler.BulkUpdateSubTasks)
			board.POST("/tasks/:subTaskId/toggle", subTaskHandler.ToggleSubTask)

			board.POST("/:cardId/invite", collaboratorHandler.InviteCollaborator)
			board.GET("/:cardId/collaborators", collaboratorHandler.ListCollaborators)
			board.DELETE("/:cardId/collaborators/:userId", collaboratorHandler.RemoveCollaborator)
			board.DELETE("/:cardId/leave", collaboratorHandler.LeaveCard)
		}

		subtasks := auth.Group("/subtasks")
		{
			subtasks.GET("/:subTaskId", subTaskHandler.GetSubTask)
			subtasks.PUT("/:subTaskId", subTaskHandler.UpdateSubTask)
			subtasks.DELETE("/:subTaskId", subTaskHandler.DeleteSubTask)
			subtasks.PUT("/:subTaskId/close", subTaskHandler.CloseSubTask)
			subtasks.GET("/:subTaskId/history", subTaskHandler.GetSubTaskHistory)
			subtasks.POST("/:subTaskId/mark-read", subTaskHandler.MarkSubTaskRead)

			subtasks.GET("/:subTaskId/comments", commentHandler.ListComments)
			subtasks.POST("/:subTaskId/comments", commentHandler.CreateComment)
			subtasks.POST("/:subTaskId/attachments/presign", commentHandler.GetUploadURL)
		}

		comments := auth.Group("/comments")
		{
			comments.GET("/unread-count", subTaskHandler.GetUnreadCommentCount)
			comments.PUT("/:commentId", commentHandler.UpdateComment)
			comments.DELETE("/:commentId", commentHandler.DeleteComment)
		}

		notifications := auth.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.PUT("/:notificationId/read", notificationHandler.MarkNotificationRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllNotificationsRead)
			notifications.DELETE("/:notificationId", notificationHandler.DeleteNotification)
		}
	}

	return r
}
