package models

import "time"

// HealthRecord stores one day of metrics for a user. The (user_id, date)
// pair is the natural key: writes for an existing day overwrite in place,
// enforced by the composite unique index.
type HealthRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index:idx_records_user_date,unique;not null" json:"user_id"`
	Date       time.Time `gorm:"index:idx_records_user_date,unique;not null" json:"date"`
	Steps      int       `gorm:"not null;default:0" json:"steps"`
	WaterML    int       `gorm:"not null;default:0" json:"water_ml"`
	SleepHours float64   `gorm:"not null;default:0" json:"sleep_hours"`
	Calories   int       `gorm:"not null;default:0" json:"calories"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MetricValue returns the stored value for a metric column name.
func (r HealthRecord) MetricValue(metric string) float64 {
	switch metric {
	case MetricWater:
		return float64(r.WaterML)
	case MetricSleep:
		return r.SleepHours
	case MetricCalories:
		return float64(r.Calories)
	default:
		return float64(r.Steps)
	}
}

// Metric names accepted by the trend endpoint. Unrecognized input falls back to steps.
const (
	MetricSteps    = "steps"
	MetricWater    = "water"
	MetricSleep    = "sleep"
	MetricCalories = "calories"
)

// Domain maxima for a single day's entry.
const (
	MaxSteps      = 100000
	MaxWaterML    = 10000
	MaxSleepHours = 24
	MaxCalories   = 10000
)
