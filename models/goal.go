package models

import "time"

// Goal periods. One row always exists per period per user after registration.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Goal holds a user's targets for one period.
type Goal struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UserID       uint      `gorm:"index:idx_goals_user_period,unique;not null" json:"user_id"`
	Period       string    `gorm:"size:16;index:idx_goals_user_period,unique;not null" json:"period"`
	StepsGoal    int       `gorm:"not null;default:0" json:"steps"`
	WaterGoal    int       `gorm:"not null;default:0" json:"water"`
	SleepGoal    float64   `gorm:"not null;default:0" json:"sleep"`
	CaloriesGoal int       `gorm:"not null;default:0" json:"calories"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Periods lists the valid goal periods in display order.
func Periods() []string {
	return []string{PeriodDaily, PeriodWeekly, PeriodMonthly}
}

// ValidPeriod reports whether p names a known goal period.
func ValidPeriod(p string) bool {
	return p == PeriodDaily || p == PeriodWeekly || p == PeriodMonthly
}

// DefaultGoal returns the seed targets for a period. The weekly and monthly
// rows multiply every daily value by 7 and 30, including sleep (8 -> 56 ->
// 240). Sleep arguably reads as hours-per-day, but the product treats all
// goals as period-cumulative; pending product clarification the multiplier
// stays uniform.
func DefaultGoal(userID uint, period string) Goal {
	g := Goal{
		UserID:       userID,
		Period:       period,
		StepsGoal:    10000,
		WaterGoal:    2000,
		SleepGoal:    8,
		CaloriesGoal: 2000,
	}
	switch period {
	case PeriodWeekly:
		g.StepsGoal *= 7
		g.WaterGoal *= 7
		g.SleepGoal *= 7
		g.CaloriesGoal *= 7
	case PeriodMonthly:
		g.StepsGoal *= 30
		g.WaterGoal *= 30
		g.SleepGoal *= 30
		g.CaloriesGoal *= 30
	}
	return g
}

// MetricTarget returns the goal value for a metric column name.
func (g Goal) MetricTarget(metric string) float64 {
	switch metric {
	case MetricWater:
		return float64(g.WaterGoal)
	case MetricSleep:
		return g.SleepGoal
	case MetricCalories:
		return float64(g.CaloriesGoal)
	default:
		return float64(g.StepsGoal)
	}
}
