package handlers

import (
	"context"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"app/engine"
	"app/utils"
)

// HandleTrainModel retrains the demand model on the historical batch and
// returns the diagnostic metrics.
// POST /api/v1/admin/train
func HandleTrainModel(c *fiber.Ctx) error {
	metrics, err := engine.Get().Train(context.Background())
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		log.Printf("[TRAIN] Training failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Training failed"})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"metrics": metrics}})
}

// HandleDetectAnomalies flags unusual trading days across the whole menu.
// GET /api/v1/analytics/anomalies
func HandleDetectAnomalies(c *fiber.Ctx) error {
	flags, err := engine.Get().DetectAnomalies(context.Background())
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		log.Printf("[ANOMALY] Detection failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Anomaly detection failed"})
	}

	flagged := 0
	for _, flag := range flags {
		if flag.IsAnomalous {
			flagged++
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"flags": flags, "flaggedDates": flagged}})
}

// HandleGetRecommendations returns the top co-purchased items for one item.
// GET /api/v1/analytics/recommendations?item=Dosa&k=5
func HandleGetRecommendations(c *fiber.Ctx) error {
	itemName := c.Query("item")
	if itemName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "item is required"})
	}
	k, err := strconv.Atoi(c.Query("k", "5"))
	if err != nil || k < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "k must be a positive integer"})
	}

	recs, err := engine.Get().Recommend(context.Background(), itemName, k)
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		log.Printf("[RECOMMEND] Failed for %q: %v", itemName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Recommendation failed"})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"recommendations": recs}})
}

// HandleGetItemHistory returns one item's paginated daily demand series plus
// its inventory summary.
// GET /api/v1/analytics/history?item=Dosa&page=1&pageSize=30
func HandleGetItemHistory(c *fiber.Ctx) error {
	itemName := c.Query("item")
	if itemName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "item is required"})
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "30"))

	history, summary, err := engine.Get().History(context.Background(), itemName)
	if handled, resp := respondCoreError(c, err); handled {
		return resp
	}
	if err != nil {
		log.Printf("[HISTORY] Failed for %q: %v", itemName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load history"})
	}

	pagination := utils.CreatePagination(len(history), page, pageSize)
	lo := (pagination.CurrentPage - 1) * pagination.PageSize
	if lo > len(history) {
		lo = len(history)
	}
	hi := lo + pagination.PageSize
	if hi > len(history) {
		hi = len(history)
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"history":    history[lo:hi],
		"summary":    summary,
		"pagination": pagination,
	}})
}
