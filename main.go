package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"app/anomaly"
	"app/config"
	"app/database"
	"app/datasource"
	"app/engine"
	"app/features"
	"app/pipeline"
	"app/routes"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPasswordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminEmail == "" || adminPasswordHash == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are not set")
	}

	config.AppConfig = config.Config{
		JWTSecret:         jwtSecret,
		AdminEmail:        adminEmail,
		AdminPasswordHash: adminPasswordHash,
		ListenAddr:        envOr("LISTEN_ADDR", ":3000"),
		DataPath:          envOr("DATA_PATH", "1.csv"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ModelPath:         envOr("MODEL_PATH", "food_demand_model.json"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		HolidayLocale:     envOr("HOLIDAY_LOCALE", "IN"),
		SessionGapMinutes: envIntOr("SESSION_GAP_MINUTES", 30),
	}

	// Holiday calendar covers a window around the current year; dates
	// outside it simply count as non-holidays.
	year := time.Now().Year()
	calendar, err := features.NewHolidayCalendar(config.AppConfig.HolidayLocale, year-5, year+5)
	if err != nil {
		log.Fatalf("Holiday calendar: %v", err)
	}

	// Transaction source: the sales table when a database is configured,
	// otherwise the CSV export.
	var source datasource.Source
	if config.AppConfig.DatabaseURL != "" {
		database.Connect(config.AppConfig.DatabaseURL)
		defer database.Close()
		source = datasource.NewPostgresSource(database.GetDB())
	} else {
		source = datasource.NewCSVSource(config.AppConfig.DataPath)
	}

	eng := engine.New(engine.Options{
		Calendar:    calendar,
		Store:       pipeline.NewFileStore(config.AppConfig.ModelPath),
		Source:      source,
		SessionGap:  config.AppConfig.SessionGap(),
		PipelineCfg: pipeline.DefaultConfig(),
		AnomalyCfg:  anomaly.DefaultConfig(),
	})
	if err := eng.LoadArtifact(); err != nil {
		log.Printf("No model artifact loaded (%v); train to create one", err)
	}
	engine.Init(eng)

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal(app.Listen(config.AppConfig.ListenAddr))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
