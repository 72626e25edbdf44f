package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/auth"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/database"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// Handler contains dependencies for the route handlers.
type Handler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// AuthMiddleware verifies the JWT token for admin routes.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		token = stripBearer(token)

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC-signed API key for scheduler routes.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}
		key = stripBearer(key)

		userID, err := auth.VerifyAPIKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create the key record so usage can be tracked.
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      userID,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

func stripBearer(token string) string {
	if len(token) > 7 && token[:7] == "Bearer " {
		return token[7:]
	}
	return token
}

// RecordUsage upserts the per-key daily usage counters.
func (h *Handler) RecordUsage(c *gin.Context, peopleCount, cohortCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Single-query upsert; works on both Postgres and SQLite.
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("request_count + ?", 1),
			"total_people":  gorm.Expr("total_people + ?", peopleCount),
			"total_cohorts": gorm.Expr("total_cohorts + ?", cohortCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:        apiKey.ID,
		Date:         today,
		RequestCount: 1,
		TotalPeople:  peopleCount,
		TotalCohorts: cohortCount,
	})
}

// RecordRun persists one scheduling invocation for the run-history view.
func (h *Handler) RecordRun(c *gin.Context, runID string, result *models.MultiCourseResult, elapsed time.Duration) {
	var keyID uint
	if apiKeyRaw, exists := c.Get("apiKey"); exists {
		keyID = apiKeyRaw.(*database.APIKey).ID
	}

	run := database.ScheduleRun{
		RunID:          runID,
		KeyID:          keyID,
		Courses:        len(result.Courses),
		TotalPeople:    result.TotalPeople,
		TotalScheduled: result.TotalScheduled,
		TotalCohorts:   result.TotalCohorts,
		BalanceMoves:   result.TotalBalanceMoves,
		DurationMS:     elapsed.Milliseconds(),
	}
	if err := h.DB.Create(&run).Error; err != nil {
		h.Logger.Warn("failed to record schedule run", zap.Error(err))
	}
}
