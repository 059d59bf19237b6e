package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trendPayload struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
	Goals  []float64 `json:"goals"`
}

func getTrend(t *testing.T, r *gin.Engine, token string, userID uint, days int, metric string) trendPayload {
	t.Helper()
	path := fmt.Sprintf("/api/v1/trends?user_id=%d&days=%d", userID, days)
	if metric != "" {
		path += "&metric=" + metric
	}
	w, env := doJSON(t, r, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, "trend: %s", w.Body.String())
	var out trendPayload
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestTrendZeroFillsMissingDays(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	// No records at all: the series is still dense, every value zero.
	trend := getTrend(t, r, token, userID, 7, "steps")
	require.Len(t, trend.Dates, 7)
	require.Len(t, trend.Values, 7)
	require.Len(t, trend.Goals, 7)

	today := time.Now()
	assert.Equal(t, today.AddDate(0, 0, -6).Format("2006-01-02"), trend.Dates[0])
	assert.Equal(t, today.Format("2006-01-02"), trend.Dates[6])
	for i, v := range trend.Values {
		assert.Zero(t, v, "day %s", trend.Dates[i])
	}
}

func TestTrendMixesRecordedAndMissingDays(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	today := time.Now()
	upsertDay(t, r, token, userID, today.Format("2006-01-02"), 5000, 1500, 7.5, 1800)
	upsertDay(t, r, token, userID, today.AddDate(0, 0, -3).Format("2006-01-02"), 2000, 800, 6, 1500)

	trend := getTrend(t, r, token, userID, 7, "steps")
	require.Len(t, trend.Values, 7)
	assert.Equal(t, []float64{0, 0, 0, 2000, 0, 0, 5000}, trend.Values)
	// Freshly registered account: seeded weekly goal 70000 normalizes to 10000/day.
	assert.Equal(t, []float64{10000, 10000, 10000, 10000, 10000, 10000, 10000}, trend.Goals)

	water := getTrend(t, r, token, userID, 7, "water")
	assert.Equal(t, []float64{0, 0, 0, 800, 0, 0, 1500}, water.Values)

	sleep := getTrend(t, r, token, userID, 7, "sleep")
	assert.Equal(t, []float64{0, 0, 0, 6, 0, 0, 7.5}, sleep.Values)
}

func TestTrendGoalReferenceScalesWithWindow(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	// Default goals: daily 10000, weekly 70000, monthly 300000. Every
	// window normalizes to a per-day line of 10000.
	for _, days := range []int{3, 7, 14, 30, 90} {
		trend := getTrend(t, r, token, userID, days, "steps")
		require.Len(t, trend.Goals, days)
		for _, g := range trend.Goals {
			assert.EqualValues(t, 10000, g, "days=%d", days)
		}
	}

	// A custom weekly goal only moves week-scale windows.
	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/goals", token, gin.H{
		"user_id":   userID,
		"goal_type": "weekly",
		"goals":     gin.H{"steps": 35000, "water": 14000, "sleep": 56, "calories": 14000},
	})
	require.Equal(t, http.StatusOK, w.Code)

	assert.EqualValues(t, 10000, getTrend(t, r, token, userID, 3, "steps").Goals[0])
	assert.EqualValues(t, 5000, getTrend(t, r, token, userID, 7, "steps").Goals[0])
	assert.EqualValues(t, 5000, getTrend(t, r, token, userID, 29, "steps").Goals[0])
	assert.EqualValues(t, 10000, getTrend(t, r, token, userID, 30, "steps").Goals[0])
}

func TestTrendDaysValidation(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	trend := getTrend(t, r, token, userID, 0, "steps")
	assert.Empty(t, trend.Dates)
	assert.Empty(t, trend.Values)
	assert.Empty(t, trend.Goals)

	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/trends?user_id=%d", userID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40060, env.Code)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/trends?user_id=%d&days=-1", userID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40061, env.Code)

	w, env = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/trends?user_id=%d&days=abc", userID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40061, env.Code)
}

func TestTrendUnknownMetricFallsBackToSteps(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	upsertDay(t, r, token, userID, time.Now().Format("2006-01-02"), 4321, 1000, 8, 2000)

	trend := getTrend(t, r, token, userID, 1, "bogus")
	require.Len(t, trend.Values, 1)
	assert.EqualValues(t, 4321, trend.Values[0])
}

func TestStatisticsAverages(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	today := time.Now()
	upsertDay(t, r, token, userID, today.Format("2006-01-02"), 1000, 1000, 7.5, 1800)
	upsertDay(t, r, token, userID, today.AddDate(0, 0, -1).Format("2006-01-02"), 2000, 3000, 8, 2200)

	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/statistics?user_id=%d", userID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats struct {
		TotalDays int     `json:"total_days"`
		AvgSteps  int     `json:"avg_steps"`
		AvgWater  int     `json:"avg_water"`
		AvgSleep  float64 `json:"avg_sleep"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 2, stats.TotalDays)
	assert.Equal(t, 1500, stats.AvgSteps)
	assert.Equal(t, 2000, stats.AvgWater)
	assert.Equal(t, 7.8, stats.AvgSleep)
}

func TestStatisticsEmptyHistoryIs404(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/statistics?user_id=%d", userID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40440, env.Code)
}

func TestStatisticsReflectsDeletes(t *testing.T) {
	db, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	upsertDay(t, r, token, userID, time.Now().Format("2006-01-02"), 1000, 1000, 8, 2000)

	records := listRecords(t, r, token, userID, "")
	require.Len(t, records, 1)
	id := int(records[0]["id"].(float64))

	w, _ := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/health-data/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/statistics?user_id=%d", userID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.Table("health_records").Count(&count).Error)
	assert.Zero(t, count)
}
