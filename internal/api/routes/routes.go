// internal/api/routes/routes.go
package routes

import (
	"net/http"
	"slices"
	"time"

	"requisition-api-server/config"
	"requisition-api-server/internal/api/handlers"
	"requisition-api-server/internal/api/middleware"
	"requisition-api-server/internal/auth"
	"requisition-api-server/internal/logger"
	"requisition-api-server/internal/metrics"
	"requisition-api-server/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers gom các handler đã khởi tạo sẵn trong main.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Items        *handlers.ItemHandler
	Requisitions *handlers.RequisitionHandler
	WebSocket    *handlers.WebSocketHandler
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", logger.RequestIDKey},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", logger.RequestIDKey},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(cfg config.Config, tokens *auth.TokenIssuer, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(metrics.Middleware())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		// WebSocket xác thực bằng ?token= nên nằm ngoài nhóm Authenticate
		apiV1.GET("/ws", h.WebSocket.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/login", h.Auth.Login)
		}

		// === CÁC ROUTE YÊU CẦU XÁC THỰC ===

		// Nhóm API quản trị, chỉ super-user
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate(tokens))
		admin.Use(middleware.Authorize(models.RoleSuperUser))
		{
			admin.GET("/users", h.Users.ListUsers)
			admin.POST("/users", h.Users.CreateUser)
			admin.DELETE("/users/:id", h.Users.DeleteUser)
		}

		business := apiV1.Group("/")
		business.Use(middleware.Authenticate(tokens))
		business.Use(middleware.Authorize(models.RoleSuperUser, models.RoleUser))
		{
			items := business.Group("/items")
			{
				items.GET("", h.Items.ListItems)
				items.POST("", h.Items.CreateItem)
				items.GET("/catalog", h.Items.GetCatalog)
				items.GET("/next-id", h.Items.NextItemID)
				items.POST("/import", h.Items.ImportItems)
				items.GET("/:id", h.Items.GetItem)
				items.PUT("/:id", h.Items.UpdateItem)
				items.DELETE("/:id", h.Items.DeleteItem)
			}

			requisitions := business.Group("/requisitions")
			{
				requisitions.GET("", h.Requisitions.ListRequisitions)
				requisitions.POST("", h.Requisitions.CreateRequisition)
				requisitions.GET("/next-number", h.Requisitions.NextRequisitionNumber)
				requisitions.GET("/:id", h.Requisitions.GetRequisition)
				requisitions.DELETE("/:id", h.Requisitions.DeleteRequisition)
				requisitions.POST("/:id/resubmit", h.Requisitions.ResubmitRequisition)
				requisitions.PATCH("/:id/archive", h.Requisitions.ToggleArchive)
				requisitions.GET("/:id/export", h.Requisitions.ExportRequisition)
			}
		}
	}

	return router
}
