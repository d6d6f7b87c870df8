package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)

	// --- Admin Routes ---
	admin := api.Group("/admin", middleware.JWTMiddleware, middleware.AdminRequired)
	admin.Post("/train", handlers.HandleTrainModel)

	// --- Forecast Routes ---
	forecast := api.Group("/forecast")
	forecast.Get("/predict", handlers.HandlePredictDemand)
	forecast.Get("/series", handlers.HandleForecastSeries)

	// --- Analytics Routes ---
	analytics := api.Group("/analytics")
	analytics.Get("/anomalies", handlers.HandleDetectAnomalies)
	analytics.Get("/recommendations", handlers.HandleGetRecommendations)
	analytics.Get("/history", handlers.HandleGetItemHistory)
	analytics.Post("/insight", middleware.JWTMiddleware, handlers.HandleForecastInsight)
}
