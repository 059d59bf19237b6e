package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goalSet struct {
	Steps    int     `json:"steps"`
	Water    int     `json:"water"`
	Sleep    float64 `json:"sleep"`
	Calories int     `json:"calories"`
}

func getGoals(t *testing.T, r *gin.Engine, token string, userID uint) map[string]goalSet {
	t.Helper()
	w, env := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/goals?user_id=%d", userID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, "goals: %s", w.Body.String())
	var out map[string]goalSet
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestRegistrationSeedsDefaultGoals(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	goals := getGoals(t, r, token, userID)
	require.Len(t, goals, 3)

	assert.Equal(t, goalSet{Steps: 10000, Water: 2000, Sleep: 8, Calories: 2000}, goals["daily"])
	assert.Equal(t, goalSet{Steps: 70000, Water: 14000, Sleep: 56, Calories: 14000}, goals["weekly"])
	assert.Equal(t, goalSet{Steps: 300000, Water: 60000, Sleep: 240, Calories: 60000}, goals["monthly"])
}

func TestSetGoalsOnePeriodOnly(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/goals", token, gin.H{
		"user_id":   userID,
		"goal_type": "weekly",
		"goals":     gin.H{"steps": 50000, "water": 12000, "sleep": 49, "calories": 13000},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	goals := getGoals(t, r, token, userID)
	assert.Equal(t, goalSet{Steps: 50000, Water: 12000, Sleep: 49, Calories: 13000}, goals["weekly"])
	// Other periods stay untouched.
	assert.Equal(t, goalSet{Steps: 10000, Water: 2000, Sleep: 8, Calories: 2000}, goals["daily"])
	assert.Equal(t, goalSet{Steps: 300000, Water: 60000, Sleep: 240, Calories: 60000}, goals["monthly"])

	// A second write for the same period overwrites in place.
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/goals", token, gin.H{
		"user_id":   userID,
		"goal_type": "weekly",
		"goals":     gin.H{"steps": 42000, "water": 7000, "sleep": 56, "calories": 14000},
	})
	require.Equal(t, http.StatusOK, w.Code)

	goals = getGoals(t, r, token, userID)
	assert.Equal(t, goalSet{Steps: 42000, Water: 7000, Sleep: 56, Calories: 14000}, goals["weekly"])
}

func TestSetGoalsValidation(t *testing.T) {
	_, r := newTestServer(t)
	userID, token := registerAndLogin(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/goals", token, gin.H{
		"user_id": userID, "goal_type": "yearly", "goals": gin.H{"steps": 1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40042, env.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/goals", token, gin.H{
		"user_id": userID, "goals": gin.H{"steps": 1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40041, env.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/goals", token, gin.H{
		"user_id": userID, "goal_type": "daily", "goals": gin.H{"steps": -1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40043, env.Code)
}

func TestSetGoalsForeignUserForbidden(t *testing.T) {
	_, r := newTestServer(t)
	aliceID, _ := registerAndLogin(t, r)
	_, bobToken := registerAndLogin(t, r)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/goals", bobToken, gin.H{
		"user_id":   aliceID,
		"goal_type": "daily",
		"goals":     gin.H{"steps": 1, "water": 1, "sleep": 1, "calories": 1},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40301, env.Code)
}
