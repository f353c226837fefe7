package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"gorm.io/gorm"
)

// DefaultListLimit is applied when a caller does not specify a page size
const DefaultListLimit = 10

// LeadRepository owns the lead lifecycle: creation, filtered listing,
// retrieval, partial update and soft deletion. Every read and write path
// is restricted to active leads.
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a lead repository backed by the given database
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// CreateLeadRequest holds the fields for lead creation
type CreateLeadRequest struct {
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Status           string  `json:"status"`
	Source           string  `json:"source"`
	BudgetMin        *int    `json:"budget_min"`
	BudgetMax        *int    `json:"budget_max"`
	PropertyInterest *string `json:"property_interest"`
}

// UpdateLeadRequest holds optional fields for partial update. Only fields
// present in the request body are applied; nil means "leave untouched".
type UpdateLeadRequest struct {
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	Status           *string `json:"status"`
	Source           *string `json:"source"`
	BudgetMin        *int    `json:"budget_min"`
	BudgetMax        *int    `json:"budget_max"`
	PropertyInterest *string `json:"property_interest"`
}

// ListLeadsQuery holds pagination and filter parameters for listing leads
type ListLeadsQuery struct {
	Skip   int
	Limit  int
	Search string
	Status string
}

// Create persists a new active lead, applying defaults for omitted
// status and source.
func (r *LeadRepository) Create(req *CreateLeadRequest) (*model.Lead, error) {
	lead := model.Lead{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Status:           req.Status,
		Source:           req.Source,
		BudgetMin:        req.BudgetMin,
		BudgetMax:        req.BudgetMax,
		PropertyInterest: req.PropertyInterest,
		IsActive:         true,
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	if lead.Source == "" {
		lead.Source = "website"
	}

	if err := r.db.Create(&lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return &lead, nil
}

// List returns active leads matching the query, ordered by id ascending so
// that skip/limit pagination is stable across calls.
func (r *LeadRepository) List(q *ListLeadsQuery) ([]model.Lead, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	skip := q.Skip
	if skip < 0 {
		skip = 0
	}

	query := r.db.Where("is_active = ?", true)
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var leads []model.Lead
	if err := query.Order("id asc").Offset(skip).Limit(limit).Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

// Get returns an active lead by id, or ErrNotFound if it is absent or
// soft-deleted.
func (r *LeadRepository) Get(id uint) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &lead, nil
}

// Update applies only the fields present in req onto an active lead and
// refreshes the updated timestamp. A lead that is absent or soft-deleted
// yields ErrNotFound; an update racing a concurrent soft delete loses and
// also sees ErrNotFound, because the active check is part of the UPDATE's
// WHERE clause.
func (r *LeadRepository) Update(id uint, req *UpdateLeadRequest) (*model.Lead, error) {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.BudgetMin != nil {
		updates["budget_min"] = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		updates["budget_max"] = *req.BudgetMax
	}
	if req.PropertyInterest != nil {
		updates["property_interest"] = *req.PropertyInterest
	}

	if len(updates) == 0 {
		return r.Get(id)
	}

	result := r.db.Model(&model.Lead{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.Get(id)
}

// SoftDelete marks an active lead inactive and returns the record so the
// caller can still respond with its data. A second delete of the same lead
// reports ErrNotFound because the first already made it inactive.
func (r *LeadRepository) SoftDelete(id uint) (*model.Lead, error) {
	result := r.db.Model(&model.Lead{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{"is_active": false})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete lead: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var lead model.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload deleted lead: %w", err)
	}
	return &lead, nil
}

// CountActive returns the number of active leads
func (r *LeadRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Lead{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}
