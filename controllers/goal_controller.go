package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/vitatrack/models"
	"github.com/cppla/vitatrack/utils"
)

// GoalController handles per-period target endpoints.
type GoalController struct {
	db *gorm.DB
}

// NewGoalController creates a new controller instance.
func NewGoalController(db *gorm.DB) *GoalController {
	return &GoalController{db: db}
}

type goalValues struct {
	Steps    int     `json:"steps"`
	Water    int     `json:"water"`
	Sleep    float64 `json:"sleep"`
	Calories int     `json:"calories"`
}

func toGoalValues(g models.Goal) goalValues {
	return goalValues{
		Steps:    g.StepsGoal,
		Water:    g.WaterGoal,
		Sleep:    g.SleepGoal,
		Calories: g.CaloriesGoal,
	}
}

// Get returns the user's goals keyed by period. Missing rows are filled
// from the seed table so the caller always sees all three periods.
func (g *GoalController) Get(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	if !authorizeUser(ctx, userID) {
		return
	}

	key := userCachePrefix(userID) + "goals"
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	goals, err := loadGoals(g.db, userID)
	if err != nil {
		utils.Sugar.Errorf("goal query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to fetch goals")
		return
	}

	out := gin.H{}
	for _, period := range models.Periods() {
		out[period] = toGoalValues(goals[period])
	}

	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: out}, utils.CacheTTL())
	utils.Success(ctx, out)
}

// Set overwrites the four targets for one period. Missing values default to
// zero; other periods are untouched. Goal changes apply retroactively to all
// trend comparisons (no goal-as-of-date history).
func (g *GoalController) Set(ctx *gin.Context) {
	type request struct {
		UserID   *uint      `json:"user_id"`
		GoalType string     `json:"goal_type"`
		Goals    goalValues `json:"goals"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	if req.UserID == nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "field 'user_id' is required")
		return
	}
	if req.GoalType == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "field 'goal_type' is required")
		return
	}
	if !models.ValidPeriod(req.GoalType) {
		utils.Error(ctx, http.StatusBadRequest, 40042, "goal_type must be daily, weekly or monthly")
		return
	}
	if req.Goals.Steps < 0 || req.Goals.Water < 0 || req.Goals.Sleep < 0 || req.Goals.Calories < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40043, "goal values must be non-negative")
		return
	}

	if !authorizeUser(ctx, *req.UserID) {
		return
	}

	goal := models.Goal{
		UserID:       *req.UserID,
		Period:       req.GoalType,
		StepsGoal:    req.Goals.Steps,
		WaterGoal:    req.Goals.Water,
		SleepGoal:    req.Goals.Sleep,
		CaloriesGoal: req.Goals.Calories,
	}

	if err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"steps_goal", "water_goal", "sleep_goal", "calories_goal", "updated_at"}),
	}).Create(&goal).Error; err != nil {
		utils.Sugar.Errorf("goal upsert failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to update goals")
		return
	}

	utils.InvalidateByPrefix(userCachePrefix(*req.UserID))

	utils.Success(ctx, gin.H{"message": req.GoalType + " goals updated successfully"})
}

// loadGoals fetches the user's goal rows and backfills missing periods from
// the seed table without persisting them.
func loadGoals(db *gorm.DB, userID uint) (map[string]models.Goal, error) {
	var rows []models.Goal
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := map[string]models.Goal{}
	for _, row := range rows {
		out[row.Period] = row
	}
	for _, period := range models.Periods() {
		if _, ok := out[period]; !ok {
			out[period] = models.DefaultGoal(userID, period)
		}
	}
	return out, nil
}
