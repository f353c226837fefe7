package repository

import (
	"testing"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"github.com/Solomon-mithra/CRM-backend/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database with the CRM schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

// seedUser registers a user directly through the directory
func seedUser(t *testing.T, db *gorm.DB, username, first, last string) *model.User {
	t.Helper()

	user, err := NewAccountDirectory(db).Create(&CreateUserRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hunter2",
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return user
}

// seedLead creates an active lead with sensible defaults
func seedLead(t *testing.T, db *gorm.DB, first, last, email string) *model.Lead {
	t.Helper()

	lead, err := NewLeadRepository(db).Create(&CreateLeadRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     "555-0100",
	})
	require.NoError(t, err)
	return lead
}
