package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Core Models ---

// TransactionRecord is a single observed sale event. Records are loaded once
// per run and never mutated.
type TransactionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
}

// FeatureRecord holds the temporal and business features derived from one
// transaction timestamp or one ad-hoc forecast query.
// DayOfWeek is Monday-based: Monday = 0 ... Sunday = 6.
type FeatureRecord struct {
	Hour        int  `json:"hour"`
	DayOfWeek   int  `json:"day_of_week"`
	DayOfMonth  int  `json:"day_of_month"`
	Month       int  `json:"month"`
	Year        int  `json:"year"`
	IsWeekend   bool `json:"is_weekend"`
	IsPeakHours bool `json:"is_peak_hours"`
	IsMorning   bool `json:"is_morning"`
	IsLateNight bool `json:"is_late_night"`
	IsHoliday   bool `json:"is_holiday"`
	ItemCode    int  `json:"item_code"`
}

// DailyAggregate is the per (date, item) rollup the model trains on.
// The hour-class shares are the fraction of that day's transactions falling
// in each window.
type DailyAggregate struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	ItemName        string  `json:"item_name"`
	ItemCode        int     `json:"item_code"`
	DayOfWeek       int     `json:"day_of_week"`
	IsWeekend       bool    `json:"is_weekend"`
	IsHoliday       bool    `json:"is_holiday"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	TotalQuantity   int     `json:"total_quantity"`
	PeakHoursShare  float64 `json:"peak_hours_share"`
	MorningShare    float64 `json:"morning_share"`
	LateNightShare  float64 `json:"late_night_share"`
	Rolling3DayMean float64 `json:"rolling_3day_mean"`
}

// AnomalyFlag marks whether one date of trading looks anomalous across the
// whole menu. Score is diagnostic only; lower means more anomalous.
type AnomalyFlag struct {
	Date        string  `json:"date"`
	IsAnomalous bool    `json:"is_anomalous"`
	Score       float64 `json:"score"`
}

// TrainingMetrics are the diagnostic errors reported by a training run.
// They carry no accept/reject semantics.
type TrainingMetrics struct {
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	TrainMAE  float64 `json:"train_mae"`
	TestMAE   float64 `json:"test_mae"`
	TrainRMSE float64 `json:"train_rmse"`
	TestRMSE  float64 `json:"test_rmse"`
}
