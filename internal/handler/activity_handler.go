package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Solomon-mithra/CRM-backend/internal/repository"
	"github.com/Solomon-mithra/CRM-backend/pkg/logger"
	"github.com/Solomon-mithra/CRM-backend/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ActivityHandler serves the per-lead activity log
type ActivityHandler struct {
	activities *repository.ActivityLog
	leads      *repository.LeadRepository
}

// NewActivityHandler creates an activity handler
func NewActivityHandler(activities *repository.ActivityLog, leads *repository.LeadRepository) *ActivityHandler {
	return &ActivityHandler{activities: activities, leads: leads}
}

// activityRequest carries the activity fields; activity_date is the calendar
// date the interaction occurred, distinct from the record's creation time.
type activityRequest struct {
	ActivityType string  `json:"activity_type"`
	Title        string  `json:"title"`
	Notes        *string `json:"notes"`
	Duration     *int    `json:"duration"`
	ActivityDate string  `json:"activity_date"`
}

// Create appends an activity to a lead, attributed to the token's user
func (h *ActivityHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordActivityOperation("create")

	leadID, err := parseID(c)
	if err != nil {
		log.Error("Invalid lead ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req activityRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid activity request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.ActivityType == "" || req.Title == "" {
		log.Warn("Incomplete activity data", zap.Uint("lead_id", leadID))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "activity_type and title are required"})
	}

	activityDate, err := parseActivityDate(req.ActivityDate)
	if err != nil {
		log.Warn("Invalid activity date", zap.String("activity_date", req.ActivityDate))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "activity_date must be a valid date"})
	}

	// The lead must currently be visible; the store's foreign key still
	// backs this check under concurrency.
	if _, err := h.leads.Get(leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		log.Error("Failed to verify lead", zap.Uint("lead_id", leadID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create activity"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	activity, err := h.activities.Append(leadID, userID, &repository.AppendActivityRequest{
		ActivityType: req.ActivityType,
		Title:        req.Title,
		Notes:        req.Notes,
		Duration:     req.Duration,
		ActivityDate: activityDate,
	})
	if err != nil {
		log.Error("Failed to create activity",
			zap.Uint("lead_id", leadID),
			zap.Uint("user_id", userID),
			zap.Error(err))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "failed to create activity"})
	}

	log.Info("Activity logged",
		zap.Uint("activity_id", activity.ID),
		zap.Uint("lead_id", leadID),
		zap.String("activity_type", activity.ActivityType))
	return c.JSON(http.StatusCreated, activity)
}

// List returns a page of activities for a lead with the acting user's name
func (h *ActivityHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordActivityOperation("list")

	leadID, err := parseID(c)
	if err != nil {
		log.Error("Invalid lead ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	defer prometheus.TrackDBOperation("query")(time.Now())
	activities, err := h.activities.List(leadID, skip, limit)
	if err != nil {
		log.Error("Failed to list activities", zap.Uint("lead_id", leadID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve activities"})
	}

	return c.JSON(http.StatusOK, activities)
}

// parseActivityDate accepts a plain calendar date or a full RFC 3339 timestamp
func parseActivityDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
