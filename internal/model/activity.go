package model

import "time"

// Activity is one logged interaction against a lead, attributed to the
// acting user. Activities are append-only: no update or delete exists.
type Activity struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	LeadID       uint      `json:"lead_id" gorm:"index;not null"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	ActivityType string    `json:"activity_type" gorm:"type:varchar(50)"`
	Title        string    `json:"title" gorm:"type:varchar(200)"`
	Notes        *string   `json:"notes,omitempty" gorm:"type:text"`
	Duration     *int      `json:"duration,omitempty"`
	ActivityDate time.Time `json:"activity_date"`
	CreatedAt    time.Time `json:"created_at"`

	Lead *Lead `json:"-" gorm:"foreignKey:LeadID"`
	User *User `json:"-" gorm:"foreignKey:UserID"`
}
