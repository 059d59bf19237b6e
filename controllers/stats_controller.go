package controllers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/vitatrack/models"
	"github.com/cppla/vitatrack/utils"
)

// StatsController serves the derived read endpoints: trend series and the
// all-history statistics snapshot.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// trendSeries holds the parallel arrays plotted by the client: one entry per
// calendar day, chronologically ascending.
type trendSeries struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
	Goals  []float64 `json:"goals"`
}

// GetTrends returns a dense date-filled series for one metric over a window
// of days ending today. Days without a stored record read as zero activity,
// not as unknown.
func (s *StatsController) GetTrends(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	if !authorizeUser(ctx, userID) {
		return
	}

	rawDays := ctx.Query("days")
	if rawDays == "" {
		utils.Error(ctx, http.StatusBadRequest, 40060, "days is required")
		return
	}
	days, err := strconv.Atoi(rawDays)
	if err != nil || days < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "days must be a non-negative integer")
		return
	}

	metric := normalizeMetric(ctx.Query("metric"))

	key := userCachePrefix(userID) + "trend:" + strconv.Itoa(days) + ":" + metric
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	today := dayStart(time.Now())

	var records []models.HealthRecord
	if days > 0 {
		start := today.AddDate(0, 0, -(days - 1))
		if err := s.db.
			Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, today).
			Find(&records).Error; err != nil {
			utils.Sugar.Errorf("trend query failed: %v", err)
			utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to fetch trend data")
			return
		}
	}

	goals, err := loadGoals(s.db, userID)
	if err != nil {
		utils.Sugar.Errorf("trend goal lookup failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to fetch goals")
		return
	}

	series := buildTrendSeries(records, metric, days, referenceValue(goals, metric, days), today)

	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: series}, utils.CacheTTL())
	utils.Success(ctx, series)
}

// GetStatistics returns the all-history snapshot: total recorded days and
// mean steps/water/sleep. A user with no records is a 404, distinct from a
// user whose averages happen to be zero.
func (s *StatsController) GetStatistics(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	if !authorizeUser(ctx, userID) {
		return
	}

	key := userCachePrefix(userID) + "statistics"
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var records []models.HealthRecord
	if err := s.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		utils.Sugar.Errorf("statistics query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to fetch statistics")
		return
	}

	if len(records) == 0 {
		utils.Error(ctx, http.StatusNotFound, 40440, "no health records for user")
		return
	}

	snapshot := summarize(records)

	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: snapshot}, utils.CacheTTL())
	utils.Success(ctx, snapshot)
}

// statisticsSnapshot mirrors the profile panel: total days plus rounded means.
type statisticsSnapshot struct {
	TotalDays int     `json:"total_days"`
	AvgSteps  int     `json:"avg_steps"`
	AvgWater  int     `json:"avg_water"`
	AvgSleep  float64 `json:"avg_sleep"`
}

// summarize computes the snapshot over the user's full history. Callers
// guarantee records is non-empty, so the means never divide by zero.
func summarize(records []models.HealthRecord) statisticsSnapshot {
	var steps, water int
	var sleep float64
	for _, r := range records {
		steps += r.Steps
		water += r.WaterML
		sleep += r.SleepHours
	}
	n := len(records)
	return statisticsSnapshot{
		TotalDays: n,
		AvgSteps:  int(math.Round(float64(steps) / float64(n))),
		AvgWater:  int(math.Round(float64(water) / float64(n))),
		AvgSleep:  math.Round(sleep/float64(n)*10) / 10,
	}
}

// normalizeMetric maps the query parameter to a known metric, defaulting to
// steps for unrecognized input.
func normalizeMetric(m string) string {
	switch m {
	case models.MetricWater, models.MetricSleep, models.MetricCalories:
		return m
	default:
		return models.MetricSteps
	}
}

// referenceValue picks the goal line for a window: short windows compare
// against the daily goal, week-scale windows against weekly/7, month-scale
// and longer against monthly/30. The value is repeated for every point.
func referenceValue(goals map[string]models.Goal, metric string, days int) float64 {
	switch {
	case days >= 30:
		return goals[models.PeriodMonthly].MetricTarget(metric) / 30
	case days >= 7:
		return goals[models.PeriodWeekly].MetricTarget(metric) / 7
	default:
		return goals[models.PeriodDaily].MetricTarget(metric)
	}
}

// buildTrendSeries emits one point per calendar day from today-(days-1)
// through today. Stored values win; gaps fill with zero. days == 0 yields an
// empty, well-formed series.
func buildTrendSeries(records []models.HealthRecord, metric string, days int, reference float64, today time.Time) trendSeries {
	byDate := make(map[string]models.HealthRecord, len(records))
	for _, r := range records {
		byDate[r.Date.Format(dateLayout)] = r
	}

	series := trendSeries{
		Dates:  make([]string, 0, days),
		Values: make([]float64, 0, days),
		Goals:  make([]float64, 0, days),
	}
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, -(days - 1 - i))
		key := d.Format(dateLayout)
		series.Dates = append(series.Dates, key)
		series.Values = append(series.Values, byDate[key].MetricValue(metric))
		series.Goals = append(series.Goals, reference)
	}
	return series
}
