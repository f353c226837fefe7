package repository

import (
	"fmt"
	"time"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"gorm.io/gorm"
)

// DashboardAggregator computes time-windowed counts and breakdowns over
// leads and activities. All queries are read-only.
type DashboardAggregator struct {
	db *gorm.DB
}

// NewDashboardAggregator creates an aggregator backed by the given database
func NewDashboardAggregator(db *gorm.DB) *DashboardAggregator {
	return &DashboardAggregator{db: db}
}

// StatusCount is one (status, count) pair in the leads-by-status breakdown
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// RecentActivity is an activity joined with the lead and actor identity
type RecentActivity struct {
	ID           uint      `json:"id"`
	LeadID       uint      `json:"lead_id"`
	UserID       uint      `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Title        string    `json:"title"`
	ActivityDate time.Time `json:"activity_date"`
	CreatedAt    time.Time `json:"created_at"`
	LeadName     string    `json:"lead_name"`
	UserName     string    `json:"user_name"`
}

// DashboardStats is the aggregate pipeline snapshot returned to the caller
type DashboardStats struct {
	TotalLeads           int64            `json:"total_leads"`
	NewLeadsThisWeek     int64            `json:"new_leads_this_week"`
	ClosedLeadsThisMonth int64            `json:"closed_leads_this_month"`
	TotalActivities      int64            `json:"total_activities"`
	LeadsByStatus        []StatusCount    `json:"leads_by_status"`
	RecentActivities     []RecentActivity `json:"recent_activities"`
}

// Stats computes the dashboard aggregates as of now:
//   - total_leads counts active leads only
//   - new_leads_this_week counts leads created since the most recent Monday 00:00
//   - closed_leads_this_month counts leads with status "closed" whose updated
//     timestamp falls in the current month
//   - leads_by_status covers all leads regardless of the active flag
//   - recent_activities returns the 10 newest activities with lead and actor names
func (a *DashboardAggregator) Stats() (*DashboardStats, error) {
	now := time.Now()
	stats := &DashboardStats{}

	err := a.db.Model(&model.Lead{}).
		Where("is_active = ?", true).
		Count(&stats.TotalLeads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	err = a.db.Model(&model.Lead{}).
		Where("created_at >= ?", startOfWeek(now)).
		Count(&stats.NewLeadsThisWeek).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count new leads: %w", err)
	}

	err = a.db.Model(&model.Lead{}).
		Where("status = ? AND updated_at >= ?", "closed", startOfMonth(now)).
		Count(&stats.ClosedLeadsThisMonth).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count closed leads: %w", err)
	}

	err = a.db.Model(&model.Activity{}).Count(&stats.TotalActivities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count activities: %w", err)
	}

	err = a.db.Model(&model.Lead{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status asc").
		Scan(&stats.LeadsByStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group leads by status: %w", err)
	}
	if stats.LeadsByStatus == nil {
		stats.LeadsByStatus = []StatusCount{}
	}

	err = a.db.Table("activities").
		Select("activities.id, activities.lead_id, activities.user_id, activities.activity_type, activities.title, activities.activity_date, activities.created_at, " +
			"leads.first_name || ' ' || leads.last_name AS lead_name, " +
			"users.first_name || ' ' || users.last_name AS user_name").
		Joins("JOIN leads ON leads.id = activities.lead_id").
		Joins("JOIN users ON users.id = activities.user_id").
		Order("activities.created_at desc, activities.id desc").
		Limit(10).
		Scan(&stats.RecentActivities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	if stats.RecentActivities == nil {
		stats.RecentActivities = []RecentActivity{}
	}

	return stats, nil
}

// startOfWeek returns the most recent Monday 00:00 in t's location
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// startOfMonth returns the first day of t's month at 00:00 in t's location
func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
