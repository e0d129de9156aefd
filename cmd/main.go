package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/helioslabs/supportdesk-backend/internal/clients/redis"
	"github.com/helioslabs/supportdesk-backend/internal/clients/sendgrid"
	"github.com/helioslabs/supportdesk-backend/internal/db"
	"github.com/helioslabs/supportdesk-backend/internal/handlers"
	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/repos"
	"github.com/helioslabs/supportdesk-backend/internal/server"
	"github.com/helioslabs/supportdesk-backend/internal/services"
	"github.com/helioslabs/supportdesk-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	experimentRepo := repos.NewExperimentRepo(thePG, log)
	assignmentRepo := repos.NewExperimentAssignmentRepo(thePG, log)
	eventRepo := repos.NewExperimentEventRepo(thePG, log)
	resultRepo := repos.NewExperimentResultRepo(thePG, log)
	ticketRepo := repos.NewTicketRepo(thePG, log)
	historyRepo := repos.NewTicketStatusHistoryRepo(thePG, log)
	faqRepo := repos.NewFAQRepo(thePG, log)
	preferenceRepo := repos.NewUserPreferenceRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// Redis results cache (optional, live results only)
	var resultsCache redis.ResultsCache
	if os.Getenv("REDIS_ADDR") != "" {
		resultsCache, err = redis.NewResultsCache(log, 5*time.Second)
		if err != nil {
			log.Warn("Could not init results cache, serving live results uncached", "error", err)
			resultsCache = nil
		} else {
			defer resultsCache.Close()
		}
	}

	// Email provider
	var emailSender services.EmailSender
	switch provider := utils.GetEnv("EMAIL_PROVIDER", "mock", log); provider {
	case "sendgrid":
		emailSender, err = sendgrid.NewFromEnv(log)
		if err != nil {
			log.Error("Could not init SendGrid client", "error", err)
			os.Exit(1)
		}
	default:
		emailSender = services.NewMockEmailSender(log)
	}

	// Services
	log.Info("Setting up Services from main...")
	randSource := rand.New(rand.NewSource(time.Now().UnixNano()))
	experimentService := services.NewExperimentService(thePG, log, experimentRepo, assignmentRepo, resultRepo)
	assignmentService := services.NewAssignmentService(thePG, log, experimentRepo, assignmentRepo, randSource)
	eventService := services.NewExperimentEventService(thePG, log, assignmentRepo, eventRepo)
	resultsService := services.NewResultsService(thePG, log, experimentRepo, eventRepo, resultRepo, resultsCache)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, preferenceRepo, emailSender)
	ticketService := services.NewTicketService(thePG, log, ticketRepo, historyRepo, notificationService)
	faqService := services.NewFAQService(thePG, log, faqRepo)
	preferenceService := services.NewPreferenceService(thePG, log, preferenceRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	ticketHandler := handlers.NewTicketHandler(log, ticketService)
	faqHandler := handlers.NewFAQHandler(log, faqService)
	preferenceHandler := handlers.NewPreferenceHandler(log, preferenceService)
	abTestHandler := handlers.NewABTestHandler(log, experimentService, assignmentService, eventService, resultsService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		TicketHandler:     ticketHandler,
		FAQHandler:        faqHandler,
		PreferenceHandler: preferenceHandler,
		ABTestHandler:     abTestHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
