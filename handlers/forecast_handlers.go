package handlers

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"app/engine"
	"app/models"
	"app/utils"
)

// HandlePredictDemand predicts the demand for one item at one date and time.
// GET /api/v1/forecast/predict?item=Dosa&date=2024-03-01&time=12:00
func HandlePredictDemand(c *fiber.Ctx) error {
	itemName := c.Query("item")
	if itemName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "item is required"})
	}

	date, err := utils.ParseFlexibleTime(c.Query("date", time.Now().Format("2006-01-02")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid date format"})
	}

	hour, err := utils.ParseClockHour(c.Query("time", "12:00"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid time format"})
	}

	quantity, err := engine.Get().PredictDemand(itemName, date, hour)
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		log.Printf("[FORECAST] Prediction failed for %q: %v", itemName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Prediction failed"})
	}

	return c.JSON(fiber.Map{"success": true, "data": models.ForecastResult{
		ItemName:          itemName,
		Date:              date.Format("2006-01-02"),
		TimeSlot:          hour,
		PredictedQuantity: quantity,
	}})
}

// HandleForecastSeries produces the multi-day forecast for one item.
// GET /api/v1/forecast/series?item=Dosa&start=2024-03-01&days=7&slots=8,12,16,19
func HandleForecastSeries(c *fiber.Ctx) error {
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

	slots, err := parseSlots(c.Query("slots", "8,12,16,19"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid slots; expected comma-separated hours"})
	}

	seq, err := engine.Get().Forecast(itemName, start, days, slots)
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		log.Printf("[FORECAST] Series failed for %q: %v", itemName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Forecast failed"})
	}

	results := make([]models.ForecastResult, 0, days*len(slots))
	for result := range seq {
		results = append(results, result)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"forecast": results}})
}

func parseSlots(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	slots := make([]int, 0, len(parts))
	for _, part := range parts {
		hour, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || hour < 0 || hour > 23 {
			return nil, fiber.ErrBadRequest
		}
		slots = append(slots, hour)
	}
	return slots, nil
}
