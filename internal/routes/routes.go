package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/serenespring/massage-booking-api/internal/audit"
	"github.com/serenespring/massage-booking-api/internal/config"
	"github.com/serenespring/massage-booking-api/internal/handlers"
	infraRepo "github.com/serenespring/massage-booking-api/internal/infra/repository"
	"github.com/serenespring/massage-booking-api/internal/middleware"
	ucAvailability "github.com/serenespring/massage-booking-api/internal/usecase/availability"
	ucBooking "github.com/serenespring/massage-booking-api/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES
	// ======================================================
	getSlotsUC := ucAvailability.NewGetAvailableSlots(schedulingRepo)

	createBookingUC := ucBooking.NewCreateBooking(schedulingRepo, auditDispatcher)
	getBookingUC := ucBooking.NewGetBooking(schedulingRepo)
	listServiceTypesUC := ucBooking.NewListServiceTypes(schedulingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(cfg, getSlotsUC)
	bookingHandler := handlers.NewBookingHandler(
		cfg,
		createBookingUC,
		getBookingUC,
		listServiceTypesUC,
	)
	businessHoursHandler := handlers.NewBusinessHoursHandler(db, auditDispatcher)
	blocksHandler := handlers.NewBlocksHandler(db, auditDispatcher)
	adminAuthHandler := handlers.NewAdminAuthHandler(db, cfg, auditDispatcher)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(rdb))
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		availability := api.Group("/availability")
		{
			availability.GET("/slots", availabilityHandler.GetSlots)
			availability.GET("/business-hours", businessHoursHandler.List)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("/service-types", bookingHandler.ListServiceTypes)
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/:id", bookingHandler.GetByID)
		}

		// ------------------------------
		// ADMIN AUTH
		// ------------------------------
		api.POST("/admin/auth/login", adminAuthHandler.Login)
		api.POST("/admin/auth/refresh", adminAuthHandler.Refresh)

		// ------------------------------
		// ADMIN (JWT)
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg))
		{
			admin.GET("/auth/me", adminAuthHandler.GetMe)

			admin.PUT("/availability/business-hours/:dayOfWeek", businessHoursHandler.Update)

			admin.GET("/availability/blocks", blocksHandler.List)
			admin.POST("/availability/blocks", blocksHandler.Create)
			admin.DELETE("/availability/blocks/:id", blocksHandler.Delete)
		}
	}
}
