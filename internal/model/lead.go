package model

import "time"

// Lead represents a prospective customer tracked through the sales pipeline.
// Deletion is a soft delete: is_active flips to false and the row stays,
// since activities keep referencing the lead by id.
type Lead struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	FirstName        string    `json:"first_name" gorm:"type:varchar(100);index"`
	LastName         string    `json:"last_name" gorm:"type:varchar(100);index"`
	Email            string    `json:"email" gorm:"type:varchar(100);index"`
	Phone            string    `json:"phone" gorm:"type:varchar(20)"`
	Status           string    `json:"status" gorm:"type:varchar(50);index;default:'new'"`
	Source           string    `json:"source" gorm:"type:varchar(50);default:'website'"`
	BudgetMin        *int      `json:"budget_min,omitempty"`
	BudgetMax        *int      `json:"budget_max,omitempty"`
	PropertyInterest *string   `json:"property_interest,omitempty" gorm:"type:text"`
	IsActive         bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// ActivityCount is resolved per response, not stored.
	ActivityCount int64 `json:"activity_count" gorm:"-"`
}
