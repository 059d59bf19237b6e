package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/vitatrack/models"
	"github.com/cppla/vitatrack/utils"
)

// HealthDataController handles the daily metrics endpoints.
type HealthDataController struct {
	db *gorm.DB
}

// NewHealthDataController creates a new controller instance.
func NewHealthDataController(db *gorm.DB) *HealthDataController {
	return &HealthDataController{db: db}
}

// metricsPayload carries the four daily metrics. Pointers distinguish a
// missing field from an explicit zero.
type metricsPayload struct {
	Steps      *int     `json:"steps"`
	WaterML    *int     `json:"water_ml"`
	SleepHours *float64 `json:"sleep_hours"`
	Calories   *int     `json:"calories"`
}

// validate reports the first missing or out-of-range field, empty when clean.
func (p metricsPayload) validate() string {
	type bound struct {
		name    string
		missing bool
		value   float64
		max     float64
	}
	checks := []bound{
		{"steps", p.Steps == nil, floatOrZero(p.Steps), models.MaxSteps},
		{"water_ml", p.WaterML == nil, floatOrZero(p.WaterML), models.MaxWaterML},
		{"sleep_hours", p.SleepHours == nil, derefFloat(p.SleepHours), models.MaxSleepHours},
		{"calories", p.Calories == nil, floatOrZero(p.Calories), models.MaxCalories},
	}
	for _, c := range checks {
		if c.missing {
			return fmt.Sprintf("field '%s' is required", c.name)
		}
		if c.value < 0 || c.value > c.max {
			return fmt.Sprintf("field '%s' is out of range", c.name)
		}
	}
	return ""
}

func floatOrZero(v *int) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// recordResponse is the wire form of a HealthRecord with a date-only date.
type recordResponse struct {
	ID         uint    `json:"id"`
	UserID     uint    `json:"user_id"`
	Date       string  `json:"date"`
	Steps      int     `json:"steps"`
	WaterML    int     `json:"water_ml"`
	SleepHours float64 `json:"sleep_hours"`
	Calories   int     `json:"calories"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toRecordResponse(r models.HealthRecord) recordResponse {
	return recordResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       r.Date.Format(dateLayout),
		Steps:      r.Steps,
		WaterML:    r.WaterML,
		SleepHours: r.SleepHours,
		Calories:   r.Calories,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  r.UpdatedAt.Format(time.RFC3339),
	}
}

// Upsert stores a day's metrics, overwriting any existing record for the
// same (user, date). Atomicity comes from the composite unique index plus
// ON CONFLICT, so concurrent writes for one day never leave two rows.
func (h *HealthDataController) Upsert(ctx *gin.Context) {
	type request struct {
		UserID *uint  `json:"user_id"`
		Date   string `json:"date"`
		metricsPayload
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
	if req.Date == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "field 'date' is required")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, msg)
		return
	}

	if !authorizeUser(ctx, *req.UserID) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "date must be YYYY-MM-DD")
		return
	}

	record := models.HealthRecord{
		UserID:     *req.UserID,
		Date:       dayStart(date),
		Steps:      *req.Steps,
		WaterML:    *req.WaterML,
		SleepHours: *req.SleepHours,
		Calories:   *req.Calories,
	}

	if err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"steps", "water_ml", "sleep_hours", "calories", "updated_at"}),
	}).Create(&record).Error; err != nil {
		utils.Sugar.Errorf("health data upsert failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to save health data")
		return
	}

	utils.InvalidateByPrefix(userCachePrefix(*req.UserID))

	utils.Success(ctx, gin.H{"message": "health data saved successfully"})
}

// List returns a user's records within [start_date, end_date], ascending.
// The range defaults to the last 30 days ending today.
func (h *HealthDataController) List(ctx *gin.Context) {
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}
	if !authorizeUser(ctx, userID) {
		return
	}

	today := dayStart(time.Now())
	start := today.AddDate(0, 0, -30)
	end := today

	if raw := ctx.Query("start_date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40015, "start_date must be YYYY-MM-DD")
			return
		}
		start = dayStart(d)
	}
	if raw := ctx.Query("end_date"); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40016, "end_date must be YYYY-MM-DD")
			return
		}
		end = dayStart(d)
	}

	var records []models.HealthRecord
	if err := h.db.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Order("date ASC").
		Find(&records).Error; err != nil {
		utils.Sugar.Errorf("health data query failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to fetch health data")
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordResponse(r))
	}
	utils.Success(ctx, out)
}

// Update mutates an existing record directly by identity, for correcting
// historical entries. The row must belong to the authenticated user.
func (h *HealthDataController) Update(ctx *gin.Context) {
	recordID, ok := pathRecordID(ctx)
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req metricsPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.Error(ctx, http.StatusBadRequest, 40013, msg)
		return
	}

	res := h.db.Model(&models.HealthRecord{}).
		Where("id = ? AND user_id = ?", recordID, userID).
		Updates(map[string]interface{}{
			"steps":       *req.Steps,
			"water_ml":    *req.WaterML,
			"sleep_hours": *req.SleepHours,
			"calories":    *req.Calories,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		utils.Sugar.Errorf("health data update failed: %v", res.Error)
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to update health data")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40430, "record not found")
		return
	}

	utils.InvalidateByPrefix(userCachePrefix(userID))

	utils.Success(ctx, gin.H{"message": "health data updated successfully"})
}

// Delete removes a record by identity. The row must belong to the
// authenticated user; a foreign id reads as not found.
func (h *HealthDataController) Delete(ctx *gin.Context) {
	recordID, ok := pathRecordID(ctx)
	if !ok {
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	res := h.db.Where("id = ? AND user_id = ?", recordID, userID).Delete(&models.HealthRecord{})
	if res.Error != nil {
		utils.Sugar.Errorf("health data delete failed: %v", res.Error)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to delete health data")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40430, "record not found")
		return
	}

	utils.InvalidateByPrefix(userCachePrefix(userID))

	utils.Success(ctx, gin.H{"message": "health data deleted successfully"})
}

func pathRecordID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40017, "invalid record id")
		return 0, false
	}
	return uint(id), true
}

// userCachePrefix scopes cached derived reads (trends, statistics, goals) to one user.
func userCachePrefix(userID uint) string {
	return "cache:hd:" + strconv.FormatUint(uint64(userID), 10) + ":"
}
