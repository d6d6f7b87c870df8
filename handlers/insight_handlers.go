package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"app/config"
	"app/engine"
	"app/models"
	"app/utils"
)

// HandleForecastInsight runs our own model's multi-day forecast for an item
// and asks Gemini to narrate it against the item's sales history.
// POST /api/v1/analytics/insight?item=Dosa&start=2024-03-01&days=7
func HandleForecastInsight(c *fiber.Ctx) error {
	if config.AppConfig.GeminiAPIKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "AI insight is not configured"})
	}

	itemName := c.Query("item")
	if itemName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "item is required"})
	}
	start, err := utils.ParseFlexibleTime(c.Query("start", time.Now().Format("2006-01-02")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid start date"})
	}
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days < 1 || days > 30 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "days must be between 1 and 30"})
	}

	// 1. Run our own forecast over the lunch and dinner peaks.
	seq, err := engine.Get().Forecast(itemName, start, days, []int{12, 19})
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Forecast failed"})
	}
	forecasts := make([]models.ForecastResult, 0, days*2)
	for result := range seq {
		forecasts = append(forecasts, result)
	}

	// 2. Pull the item's daily history for context.
	history, summary, err := engine.Get().History(context.Background(), itemName)
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load history"})
	}

	// 3. Construct the prompt and call the Gemini API.
	prompt := constructInsightPrompt(itemName, summary, history, forecasts)

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to connect to AI service"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("Error from Gemini API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate insight from AI"})
	}

	analysis, err := parseGeminiAnalysis(resp)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": models.ForecastInsightResponse{
		GeneratedAt: time.Now().UTC(),
		ItemName:    itemName,
		ForecastPeriod: models.ForecastPeriod{
			StartDate: start,
			EndDate:   start.AddDate(0, 0, days-1),
		},
		DailyForecast: forecasts,
		AiAnalysis:    *analysis,
	}})
}

// constructInsightPrompt creates a detailed prompt for the Gemini API.
func constructInsightPrompt(itemName string, summary models.InventorySummary, history []models.HistoricalSale, forecasts []models.ForecastResult) string {
	historyStr := ""
	for _, day := range history {
		historyStr += fmt.Sprintf("On %s, %d units were sold.\n", day.SaleDate.Format("2006-01-02"), day.QuantitySold)
	}
	if historyStr == "" {
		historyStr = "No sales history available."
	}

	forecastStr := ""
	for _, point := range forecasts {
		forecastStr += fmt.Sprintf("%s %02d:00 -> %d units\n", point.Date, point.TimeSlot, point.PredictedQuantity)
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert food-service data analyst. A regression model has already produced
        the demand forecast below; your task is to explain it, not to re-forecast.

        **Analysis Context:**
        - Menu Item: %s
        - Average Daily Demand: %.1f units
        - Peak Sales Day: %s
        - Today's Date: %s

        **Historical Daily Sales:**
        %s

        **Model Forecast (per time slot):**
        %s

        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, itemName, summary.AverageDailyDemand, summary.PeakDay, time.Now().Format("2006-01-02"), historyStr, forecastStr, jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

// parseGeminiAnalysis parses the JSON narrative from Gemini.
func parseGeminiAnalysis(resp *genai.GenerateContentResponse) (*models.AiAnalysis, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var geminiText string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			geminiText += string(txt)
		}
	}
	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Printf("Could not extract JSON from Gemini response: %s", geminiText)
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var analysis models.AiAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		log.Printf("Error parsing Gemini JSON: %v\nRaw JSON: %s", err, jsonStr)
		return nil, fmt.Errorf("failed to parse AI analysis data")
	}
	return &analysis, nil
}
