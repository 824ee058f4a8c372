package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/ws"
	"catalog/pkg/clock"
	"catalog/pkg/database"
	"catalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.Load(viper.New())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(database.Config{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		LogLevel: cfg.DBLogLevel,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database ready (%s)", cfg.DBDriver)

	deps := app.Deps{Clock: clock.New()}

	// --- Product events to RabbitMQ ---
	if cfg.RabbitMQEnabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		deps.Events = services.NewBrokerPublisher(mqClient)

		if err := mqClient.Consume(rabbitmq.LogDelivery); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Product events to WebSocket clients ---
	if cfg.WSEnabled {
		deps.Hub = ws.NewHub()
		go deps.Hub.Run()
		defer deps.Hub.Stop()
	}

	fiberApp, _, err := app.NewApp(cfg, db, deps)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// --- HTTP server with graceful shutdown ---
	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := fiberApp.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
