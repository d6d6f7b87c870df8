package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"app/anomaly"
	"app/config"
	"app/engine"
	"app/features"
	"app/models"
	"app/pipeline"
	"app/routes"
)

type sliceSource struct {
	txs []models.TransactionRecord
}

func (s *sliceSource) Load(_ context.Context) ([]models.TransactionRecord, error) {
	return s.txs, nil
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	config.AppConfig = config.Config{
		JWTSecret:         "test-secret",
		AdminEmail:        "admin@canteen.local",
		AdminPasswordHash: string(hash),
		SessionGapMinutes: 30,
	}

	var txs []models.TransactionRecord
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		date := start.AddDate(0, 0, day)
		txs = append(txs,
			models.TransactionRecord{Timestamp: date.Add(12 * time.Hour), ItemName: "Dosa", Quantity: 5},
			models.TransactionRecord{Timestamp: date.Add(12*time.Hour + 10*time.Minute), ItemName: "Tea", Quantity: 2},
		)
	}

	cal, err := features.NewHolidayCalendar("IN", 2020, 2030)
	require.NoError(t, err)
	cfg := pipeline.DefaultConfig()
	cfg.NumTrees = 30

	engine.Init(engine.New(engine.Options{
		Calendar:    cal,
		Store:       pipeline.NewFileStore(filepath.Join(t.TempDir(), "model.json")),
		Source:      &sliceSource{txs: txs},
		PipelineCfg: cfg,
		AnomalyCfg:  anomaly.DefaultConfig(),
	}))

	app := fiber.New()
	routes.SetupRoutes(app)
	return app
}

func TestUnknownRouteNotFound(t *testing.T) {
	app := testApp(t)
	req := httptest.NewRequest("GET", "/api/v1/forecast/unknown", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestPredictWithoutModel(t *testing.T) {
	app := testApp(t)
	req := httptest.NewRequest("GET", "/api/v1/forecast/predict?item=Dosa&date=2024-03-06&time=12:00", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestPredictRequiresItem(t *testing.T) {
	app := testApp(t)
	req := httptest.NewRequest("GET", "/api/v1/forecast/predict", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginAndTrainFlow(t *testing.T) {
	app := testApp(t)

	// Bad password first.
	body, _ := json.Marshal(models.LoginRequest{Email: "admin@canteen.local", Password: "nope"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Real login.
	body, _ = json.Marshal(models.LoginRequest{Email: "admin@canteen.local", Password: "secret123"})
	req = httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var loginBody struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	require.NotEmpty(t, loginBody.Data.Token)

	// Training requires the token.
	req = httptest.NewRequest("POST", "/api/v1/admin/train", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/admin/train", nil)
	req.Header.Set("Authorization", "Bearer "+loginBody.Data.Token)
	resp, err = app.Test(req, 60_000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Prediction works once trained.
	req = httptest.NewRequest("GET", "/api/v1/forecast/predict?item=Dosa&date=2024-03-06&time=12:00", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Unknown items are 404s.
	req = httptest.NewRequest("GET", "/api/v1/forecast/predict?item=Burger&date=2024-03-06&time=12:00", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAnomaliesAndRecommendations(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest("GET", "/api/v1/analytics/anomalies", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/analytics/recommendations?item=Dosa&k=3", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/v1/analytics/recommendations?item=Burger", nil)
	resp, _ = app.Test(req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInsightUnconfigured(t *testing.T) {
	app := testApp(t)
	req := httptest.NewRequest("POST", "/api/v1/analytics/insight?item=Dosa", nil)
	resp, _ := app.Test(req)
	// No Gemini key and no JWT; middleware rejects first.
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
