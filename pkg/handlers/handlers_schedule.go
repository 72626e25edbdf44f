package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jmcallister/cohort-scheduler-api-go/pkg/models"
	"github.com/jmcallister/cohort-scheduler-api-go/pkg/scheduler"
)

// ScheduleJSON handles the JSON-based scheduling request.
func (h *Handler) ScheduleJSON(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.runSchedule(c, input)
}

// runSchedule converts the input, runs the engine, records usage and run
// history, and writes the response.
func (h *Handler) runSchedule(c *gin.Context, input models.ScheduleInput) {
	cfg := models.DefaultConfig()
	input.Options.Apply(&cfg)

	facilitators := make(map[string]bool, len(input.Facilitators))
	for _, id := range input.Facilitators {
		facilitators[id] = true
	}

	people := make([]*models.Person, 0, len(input.People))
	for _, in := range input.People {
		people = append(people, in.ToPerson())
		if in.Facilitator {
			facilitators[in.ID] = true
		}
	}
	cfg.FacilitatorIDs = facilitators

	engine := scheduler.New(cfg, scheduler.WithLogger(h.Logger))

	start := time.Now()
	result, err := engine.Schedule(c.Request.Context(), people)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrNoUsers) || errors.Is(err, scheduler.ErrNoFacilitators) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.NewString()
	h.RecordUsage(c, result.TotalPeople, result.TotalCohorts)
	h.RecordRun(c, runID, result, time.Since(start))

	c.JSON(http.StatusOK, models.NewScheduleResponse(runID, result))
}

// ScheduleCSV handles CSV file uploads for scheduling. The people file needs
// an "id" column; name, timezone, experience, courses (| separated),
// availability / if_needed (textual interval specs) and facilitator
// (true/1) columns are optional. Scheduler options ride along as form
// fields.
func (h *Handler) ScheduleCSV(c *gin.Context) {
	peopleFile, _ := c.FormFile("people_file")
	if peopleFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "people_file is required"})
		return
	}

	f, err := peopleFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open people file"})
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read people header"})
		return
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["id"]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "people file needs an id column"})
		return
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var input models.ScheduleInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		id := field(record, "id")
		if id == "" {
			continue
		}
		var courses []string
		if raw := field(record, "courses"); raw != "" {
			courses = strings.Split(raw, "|")
		}
		facilitator, _ := strconv.ParseBool(field(record, "facilitator"))
		input.People = append(input.People, models.PersonInput{
			ID:           id,
			Name:         field(record, "name"),
			Timezone:     field(record, "timezone"),
			Experience:   field(record, "experience"),
			Courses:      courses,
			Availability: field(record, "availability"),
			IfNeededSpec: field(record, "if_needed"),
			Facilitator:  facilitator,
		})
	}

	input.Options = csvOptions(c)
	h.runSchedule(c, input)
}

// csvOptions lifts scheduler overrides out of the multipart form.
func csvOptions(c *gin.Context) *models.ScheduleOptions {
	opts := &models.ScheduleOptions{}
	if v, err := strconv.Atoi(c.PostForm("meeting_length")); err == nil {
		opts.MeetingLength = &v
	}
	if v, err := strconv.Atoi(c.PostForm("min_people")); err == nil {
		opts.MinPeople = &v
	}
	if v, err := strconv.Atoi(c.PostForm("max_people")); err == nil {
		opts.MaxPeople = &v
	}
	if v, err := strconv.Atoi(c.PostForm("num_iterations")); err == nil {
		opts.NumIterations = &v
	}
	if v, err := strconv.ParseBool(c.PostForm("facilitator_mode")); err == nil {
		opts.FacilitatorMode = &v
	}
	if v, err := strconv.ParseBool(c.PostForm("balance")); err == nil {
		opts.Balance = &v
	}
	return opts
}
