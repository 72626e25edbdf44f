package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/interval"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
)

// ValidateInput checks a scheduling request for shape problems without
// running the solver: empty population, duplicate ids, people whose
// availability parses to nothing.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if len(input.People) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one person is required",
		})
		return
	}

	seen := make(map[string]bool, len(input.People))
	emptyAvailability := 0
	for _, p := range input.People {
		if p.ID == "" {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Every person needs an id"})
			return
		}
		if seen[p.ID] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate person ID: " + p.ID})
			return
		}
		seen[p.ID] = true

		firm := append(append([]interval.Interval(nil), p.Intervals...), interval.ParseSpec(p.Availability)...)
		fallback := append(append([]interval.Interval(nil), p.IfNeeded...), interval.ParseSpec(p.IfNeededSpec)...)
		if len(firm) == 0 && len(fallback) == 0 {
			emptyAvailability++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"people_count":       len(input.People),
			"empty_availability": emptyAvailability,
		},
	})
}
