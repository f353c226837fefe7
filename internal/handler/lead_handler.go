package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"github.com/Solomon-mithra/CRM-backend/internal/repository"
	"github.com/Solomon-mithra/CRM-backend/pkg/logger"
	"github.com/Solomon-mithra/CRM-backend/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LeadHandler serves the lead CRUD surface
type LeadHandler struct {
	leads      *repository.LeadRepository
	activities *repository.ActivityLog
}

// NewLeadHandler creates a lead handler
func NewLeadHandler(leads *repository.LeadRepository, activities *repository.ActivityLog) *LeadHandler {
	return &LeadHandler{leads: leads, activities: activities}
}

// Create creates a new lead
func (h *LeadHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("create")

	var req repository.CreateLeadRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid lead request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		log.Warn("Incomplete lead data", zap.String("email", req.Email))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "first_name, last_name and email are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	lead, err := h.leads.Create(&req)
	if err != nil {
		log.Error("Failed to create lead", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create lead"})
	}

	go h.updateActiveLeadCount()

	log.Info("Lead created",
		zap.Uint("lead_id", lead.ID),
		zap.String("email", lead.Email),
		zap.String("status", lead.Status))
	return c.JSON(http.StatusCreated, lead)
}

// List returns active leads with pagination and optional search/status filters
func (h *LeadHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("list")

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	query := repository.ListLeadsQuery{
		Skip:   skip,
		Limit:  limit,
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	leads, err := h.leads.List(&query)
	if err != nil {
		log.Error("Failed to list leads", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve leads"})
	}

	if err := h.attachActivityCounts(leads); err != nil {
		log.Warn("Failed to resolve activity counts", zap.Error(err))
	}

	log.Info("Leads retrieved", zap.Int("count", len(leads)))
	return c.JSON(http.StatusOK, leads)
}

// Get returns one active lead by id
func (h *LeadHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("get")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid lead ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	lead, err := h.leads.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		log.Error("Failed to get lead", zap.Uint("lead_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve lead"})
	}

	if count, err := h.activities.CountForLead(lead.ID); err == nil {
		lead.ActivityCount = count
	}

	return c.JSON(http.StatusOK, lead)
}

// Update applies a partial update to an active lead
func (h *LeadHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("update")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid lead ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	var req repository.UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid lead update data", zap.Uint("lead_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	lead, err := h.leads.Update(id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		log.Error("Failed to update lead", zap.Uint("lead_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update lead"})
	}

	if count, err := h.activities.CountForLead(lead.ID); err == nil {
		lead.ActivityCount = count
	}

	log.Info("Lead updated", zap.Uint("lead_id", lead.ID), zap.String("status", lead.Status))
	return c.JSON(http.StatusOK, lead)
}

// Delete soft-deletes an active lead and returns the now-inactive record
func (h *LeadHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("delete")

	id, err := parseID(c)
	if err != nil {
		log.Error("Invalid lead ID", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lead ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	lead, err := h.leads.SoftDelete(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lead not found"})
		}
		log.Error("Failed to delete lead", zap.Uint("lead_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete lead"})
	}

	go h.updateActiveLeadCount()

	log.Info("Lead deleted", zap.Uint("lead_id", lead.ID))
	return c.JSON(http.StatusOK, lead)
}

// attachActivityCounts resolves activity counts for a page of leads in one
// grouped query.
func (h *LeadHandler) attachActivityCounts(leads []model.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	ids := make([]uint, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}
	counts, err := h.activities.CountByLead(ids)
	if err != nil {
		return err
	}
	for i := range leads {
		leads[i].ActivityCount = counts[leads[i].ID]
	}
	return nil
}

// updateActiveLeadCount refreshes the active leads gauge
func (h *LeadHandler) updateActiveLeadCount() {
	count, err := h.leads.CountActive()
	if err != nil {
		return
	}
	prometheus.UpdateActiveLeads(int(count))
}

// parseID parses the :id path parameter
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
