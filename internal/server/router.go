package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/helioslabs/supportdesk-backend/internal/handlers"
)

type RouterConfig struct {
	TicketHandler     *handlers.TicketHandler
	FAQHandler        *handlers.FAQHandler
	PreferenceHandler *handlers.PreferenceHandler
	ABTestHandler     *handlers.ABTestHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		// Tickets
		api.GET("/tickets", cfg.TicketHandler.List)
		api.POST("/tickets", cfg.TicketHandler.Create)
		api.GET("/tickets/:id", cfg.TicketHandler.Get)
		api.PUT("/tickets/:id", cfg.TicketHandler.UpdateStatus)
		api.GET("/tickets/:id/history", cfg.TicketHandler.History)

		// FAQs
		api.GET("/faqs", cfg.FAQHandler.List)
		api.POST("/faqs", cfg.FAQHandler.Create)
		api.GET("/faqs/:id", cfg.FAQHandler.Get)
		api.PUT("/faqs/:id", cfg.FAQHandler.Update)
		api.DELETE("/faqs/:id", cfg.FAQHandler.Delete)

		// Preferences
		api.GET("/preferences/:email", cfg.PreferenceHandler.Get)
		api.POST("/preferences", cfg.PreferenceHandler.Upsert)

		// A/B tests
		api.GET("/ab-tests", cfg.ABTestHandler.List)
		api.POST("/ab-tests", cfg.ABTestHandler.Create)
		api.GET("/ab-tests/:id", cfg.ABTestHandler.Get)
		api.PUT("/ab-tests/:id/status", cfg.ABTestHandler.SetStatus)
		api.POST("/ab-tests/:id/assign", cfg.ABTestHandler.Assign)
		api.POST("/ab-tests/:id/events", cfg.ABTestHandler.RecordEvent)
		api.POST("/ab-tests/:id/calculate", cfg.ABTestHandler.Calculate)
		api.GET("/ab-tests/:id/results", cfg.ABTestHandler.LiveResults)
	}

	return router
}
