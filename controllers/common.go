package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/vitatrack/middleware"
	"github.com/cppla/vitatrack/utils"
)

const dateLayout = "2006-01-02"

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// authorizeUser rejects requests whose user_id parameter does not match the
// authenticated identity. The token is the sole tenancy boundary; a mismatch
// fails loudly instead of being silently re-scoped.
func authorizeUser(ctx *gin.Context, userID uint) bool {
	authID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return false
	}
	if authID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "cannot access another user's data")
		return false
	}
	return true
}

// queryUserID reads and validates the user_id query parameter.
func queryUserID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Query("user_id")
	if raw == "" {
		utils.Error(ctx, http.StatusBadRequest, 40010, "user_id is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "user_id must be a number")
		return 0, false
	}
	return uint(id), true
}

// dayStart truncates a time to local midnight, the canonical form for date keys.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseDate parses a YYYY-MM-DD string in the local zone.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}
