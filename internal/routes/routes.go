package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/config"
	"github.com/BruksfildServices01/salon-booking/internal/handlers"
	"github.com/BruksfildServices01/salon-booking/internal/media"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/usecase/booking"
)

// Dependencies are built once in main and shared by every handler.
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *logrus.Logger
	Booking booking.Deps
	Media   media.Store
	Audit   *audit.Dispatcher
	Checks  map[string]handlers.Check
}

func RegisterRoutes(r *gin.Engine, d Dependencies) {

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Audit)
	bookingHandler := handlers.NewBookingHandler(d.Booking)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Media, d.Booking.Cache, d.Audit, d.Log)
	customerHandler := handlers.NewCustomerHandler(d.DB)
	dashboardHandler := handlers.NewDashboardHandler(d.DB, d.Config.Timezone)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	healthHandler := handlers.NewHealthHandler(d.Config.Env, d.Checks)

	api := r.Group("/api")

	// ======================================================
	// PUBLIC
	// ======================================================
	api.GET("/health", healthHandler.Health)
	api.GET("/ready", healthHandler.Ready)

	api.POST("/auth/login", authHandler.Login)

	api.GET("/services", serviceHandler.List)
	api.GET("/services/:id", serviceHandler.Get)
	api.GET("/availability", bookingHandler.Availability)
	api.POST("/bookings", bookingHandler.Create)

	// ======================================================
	// ADMIN (JWT)
	// ======================================================
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(d.Config))
	{
		admin.GET("/dashboard", dashboardHandler.Get)

		admin.GET("/bookings", bookingHandler.List)
		admin.POST("/bookings", bookingHandler.AdminCreate)
		admin.GET("/bookings/:id", bookingHandler.Get)
		admin.PATCH("/bookings/:id/confirm", bookingHandler.Confirm)
		admin.PATCH("/bookings/:id/complete", bookingHandler.Complete)
		admin.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

		admin.GET("/services", serviceHandler.List)
		admin.POST("/services", serviceHandler.Create)
		admin.PUT("/services/:id", serviceHandler.Update)
		admin.DELETE("/services/:id", serviceHandler.Delete)
		admin.POST("/services/:id/image", serviceHandler.UploadImage)

		admin.GET("/customers", customerHandler.List)
		admin.GET("/audit-logs", auditLogsHandler.List)
	}
}
