package models

import "time"

// HistoricalSale is one day of observed demand for an item, used by the
// history endpoint and as forecast-prompt context.
type HistoricalSale struct {
	SaleDate     time.Time `json:"saleDate"`
	QuantitySold int       `json:"quantitySold"`
}

// ForecastResult is one predicted point of a multi-step forecast.
type ForecastResult struct {
	ItemName          string `json:"item_name"`
	Date              string `json:"date"`      // YYYY-MM-DD
	TimeSlot          int    `json:"time_slot"` // hour of day, 0-23
	PredictedQuantity int    `json:"predicted_quantity"`
}

// ForecastPeriod defines the start and end dates for a forecast.
type ForecastPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// InventorySummary is the preparation guidance derived from an item's daily
// history: its average daily demand, busiest weekday and a stock suggestion.
type InventorySummary struct {
	AverageDailyDemand float64 `json:"averageDailyDemand"`
	PeakDay            string  `json:"peakDay"`
	SuggestedStock     int     `json:"suggestedStock"`
}

// AiAnalysis contains the qualitative insights from the Gemini model.
type AiAnalysis struct {
	Summary         string   `json:"summary"`
	PositiveFactors []string `json:"positive_factors"`
	NegativeFactors []string `json:"negative_factors"`
}

// ForecastInsightResponse is the complete structure for the AI insight API
// response: the numeric forecast our own model produced, plus the narrative
// Gemini wrote about it.
type ForecastInsightResponse struct {
	GeneratedAt    time.Time        `json:"generatedAt"`
	ItemName       string           `json:"itemName"`
	ForecastPeriod ForecastPeriod   `json:"forecastPeriod"`
	DailyForecast  []ForecastResult `json:"dailyForecast"`
	AiAnalysis     AiAnalysis       `json:"aiAnalysis"`
}
