package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"partspicker/internal/handlers"
	"partspicker/internal/middleware"
	"partspicker/internal/models"
	"partspicker/internal/repositories"
	"partspicker/internal/services"
	"partspicker/pkg/events"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=partspicker port=5432 sslmode=disable")
	viper.SetDefault("TOKEN_TTL_MINUTES", 30)
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	adminCode := viper.GetString("ADMIN_CODE")
	if adminCode == "" {
		log.Println("ADMIN_CODE is not set; part removal is disabled")
	}
	tokenTTL := time.Duration(viper.GetInt("TOKEN_TTL_MINUTES")) * time.Minute

	// --- Initialize Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.CarParameter{},
		&models.Part{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var publisher services.StockEventPublisher
	var mqClient *events.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL is not set; stock events are disabled")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	partRepo := repositories.NewGORMPartRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)

	// --- Initialize Services ---
	tokenService := services.NewTokenService(jwtSecret)
	authService := services.NewAuthService(userRepo, tokenService, tokenTTL, adminCode)
	partService := services.NewPartService(partRepo, authService)
	cartService := services.NewCartService(cartRepo, publisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, viper.GetBool("COOKIE_SECURE"))
	partHandler := handlers.NewPartHandler(partService)
	cartHandler := handlers.NewCartHandler(cartService)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	session := middleware.SessionRequired(tokenService, userRepo)

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, session)
	partHandler.RegisterRoutes(apiV1, session)
	cartHandler.RegisterRoutes(apiV1, session)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start Stock Event Consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for stock events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeStockEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens a GORM connection for the configured driver. The
// sqlite driver is intended for local development and tests.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return gorm.Open(postgres.Open(dsn), cfg)
	}
}
