package repository

import (
	"fmt"
	"time"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"gorm.io/gorm"
)

// ActivityLog is the append-only record of interactions against leads.
// It does not verify that the lead exists; referential integrity is the
// store's responsibility through the foreign key.
type ActivityLog struct {
	db *gorm.DB
}

// NewActivityLog creates an activity log backed by the given database
func NewActivityLog(db *gorm.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

// AppendActivityRequest holds the fields for logging an activity
type AppendActivityRequest struct {
	ActivityType string    `json:"activity_type"`
	Title        string    `json:"title"`
	Notes        *string   `json:"notes"`
	Duration     *int      `json:"duration"`
	ActivityDate time.Time `json:"activity_date"`
}

// ActivityWithUser is an activity row joined with the acting user's display name
type ActivityWithUser struct {
	ID           uint      `json:"id"`
	LeadID       uint      `json:"lead_id"`
	UserID       uint      `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Title        string    `json:"title"`
	Notes        *string   `json:"notes,omitempty"`
	Duration     *int      `json:"duration,omitempty"`
	ActivityDate time.Time `json:"activity_date"`
	CreatedAt    time.Time `json:"created_at"`
	UserName     string    `json:"user_name"`
}

// Append creates an activity row attributed to the acting user. A foreign
// key violation on the lead surfaces as a wrapped store error.
func (l *ActivityLog) Append(leadID, userID uint, req *AppendActivityRequest) (*model.Activity, error) {
	activity := model.Activity{
		LeadID:       leadID,
		UserID:       userID,
		ActivityType: req.ActivityType,
		Title:        req.Title,
		Notes:        req.Notes,
		Duration:     req.Duration,
		ActivityDate: req.ActivityDate,
	}

	if err := l.db.Create(&activity).Error; err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return &activity, nil
}

// List returns a page of activities for a lead in insertion order, each
// carrying the acting user's display name. The name is resolved in the same
// query through a join, never per row.
func (l *ActivityLog) List(leadID uint, skip, limit int) ([]ActivityWithUser, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	var activities []ActivityWithUser
	err := l.db.Table("activities").
		Select("activities.*, users.first_name || ' ' || users.last_name AS user_name").
		Joins("JOIN users ON users.id = activities.user_id").
		Where("activities.lead_id = ?", leadID).
		Order("activities.id asc").
		Offset(skip).
		Limit(limit).
		Scan(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// CountForLead returns the number of activities logged against one lead
func (l *ActivityLog) CountForLead(leadID uint) (int64, error) {
	var count int64
	err := l.db.Model(&model.Activity{}).Where("lead_id = ?", leadID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

// CountByLead returns activity counts for a set of leads in one grouped query
func (l *ActivityLog) CountByLead(leadIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(leadIDs))
	if len(leadIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		LeadID uint
		Count  int64
	}
	err := l.db.Model(&model.Activity{}).
		Select("lead_id, COUNT(*) as count").
		Where("lead_id IN ?", leadIDs).
		Group("lead_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	for _, row := range rows {
		counts[row.LeadID] = row.Count
	}
	return counts, nil
}
