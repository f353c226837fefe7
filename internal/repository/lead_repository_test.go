package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRepository_CreateAppliesDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	lead, err := repo.Create(&CreateLeadRequest{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Phone:     "555-0100",
	})
	require.NoError(t, err)

	assert.NotZero(t, lead.ID)
	assert.Equal(t, "new", lead.Status)
	assert.Equal(t, "website", lead.Source)
	assert.True(t, lead.IsActive)
	assert.False(t, lead.CreatedAt.IsZero())
}

func TestLeadRepository_CreateKeepsProvidedFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	budgetMin := 100000
	budgetMax := 250000
	interest := "two-bedroom condo"
	lead, err := repo.Create(&CreateLeadRequest{
		FirstName:        "Bob",
		LastName:         "King",
		Email:            "bob@x.com",
		Phone:            "555-0101",
		Status:           "contacted",
		Source:           "referral",
		BudgetMin:        &budgetMin,
		BudgetMax:        &budgetMax,
		PropertyInterest: &interest,
	})
	require.NoError(t, err)

	assert.Equal(t, "contacted", lead.Status)
	assert.Equal(t, "referral", lead.Source)
	require.NotNil(t, lead.BudgetMin)
	assert.Equal(t, 100000, *lead.BudgetMin)
	require.NotNil(t, lead.PropertyInterest)
	assert.Equal(t, "two-bedroom condo", *lead.PropertyInterest)
}

func TestLeadRepository_ListSearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	seedLead(t, db, "John", "Smith", "john@x.com")
	seedLead(t, db, "Sarah", "SMITH", "sarah@x.com")
	seedLead(t, db, "Will", "Turner", "blacksmith@x.com")
	seedLead(t, db, "Ann", "Lee", "ann@x.com")

	leads, err := repo.List(&ListLeadsQuery{Search: "smith"})
	require.NoError(t, err)
	require.Len(t, leads, 3)

	emails := []string{leads[0].Email, leads[1].Email, leads[2].Email}
	assert.Contains(t, emails, "john@x.com")
	assert.Contains(t, emails, "sarah@x.com")
	assert.Contains(t, emails, "blacksmith@x.com")
}

func TestLeadRepository_ListStatusFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	lead := seedLead(t, db, "Ann", "Lee", "ann@x.com")
	seedLead(t, db, "Bob", "King", "bob@x.com")

	closed := "closed"
	_, err := repo.Update(lead.ID, &UpdateLeadRequest{Status: &closed})
	require.NoError(t, err)

	leads, err := repo.List(&ListLeadsQuery{Status: "closed"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, lead.ID, leads[0].ID)
}

func TestLeadRepository_ListPaginationIsStable(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"} {
		seedLead(t, db, "Lead", "Person", email)
	}

	first, err := repo.List(&ListLeadsQuery{Skip: 0, Limit: 2})
	require.NoError(t, err)
	second, err := repo.List(&ListLeadsQuery{Skip: 2, Limit: 2})
	require.NoError(t, err)
	firstAgain, err := repo.List(&ListLeadsQuery{Skip: 0, Limit: 2})
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, firstAgain[0].ID)
	assert.Equal(t, first[1].ID, firstAgain[1].ID)
	assert.Less(t, first[1].ID, second[0].ID)
}

func TestLeadRepository_GetNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	_, err := repo.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeadRepository_UpdateIsPartial(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)
	lead := seedLead(t, db, "Ann", "Lee", "ann@x.com")

	before, err := repo.Get(lead.ID)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	closed := "closed"
	updated, err := repo.Update(lead.ID, &UpdateLeadRequest{Status: &closed})
	require.NoError(t, err)

	// Only the provided field changed
	assert.Equal(t, "closed", updated.Status)
	assert.Equal(t, before.FirstName, updated.FirstName)
	assert.Equal(t, before.LastName, updated.LastName)
	assert.Equal(t, before.Email, updated.Email)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, before.Source, updated.Source)
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))
}

func TestLeadRepository_UpdateEmptyRequestLeavesLeadUntouched(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)
	lead := seedLead(t, db, "Ann", "Lee", "ann@x.com")

	updated, err := repo.Update(lead.ID, &UpdateLeadRequest{})
	require.NoError(t, err)
	assert.Equal(t, lead.Status, updated.Status)
	assert.Equal(t, lead.Phone, updated.Phone)
}

func TestLeadRepository_UpdateNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	closed := "closed"
	_, err := repo.Update(999, &UpdateLeadRequest{Status: &closed})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeadRepository_SoftDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)
	lead := seedLead(t, db, "Ann", "Lee", "ann@x.com")

	deleted, err := repo.SoftDelete(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.ID, deleted.ID)
	assert.False(t, deleted.IsActive)
	assert.Equal(t, "ann@x.com", deleted.Email)

	// Soft-deleted leads are invisible to every read path
	_, err = repo.Get(lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	leads, err := repo.List(&ListLeadsQuery{})
	require.NoError(t, err)
	assert.Empty(t, leads)

	closed := "closed"
	_, err = repo.Update(lead.ID, &UpdateLeadRequest{Status: &closed})
	assert.ErrorIs(t, err, ErrNotFound)

	// The second delete reports not-found, the end state is unchanged
	_, err = repo.SoftDelete(lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeadRepository_Scenario(t *testing.T) {
	db := newTestDB(t)
	repo := NewLeadRepository(db)

	lead, err := repo.Create(&CreateLeadRequest{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@x.com",
		Phone:     "555-0100",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", lead.Status)
	assert.True(t, lead.IsActive)

	closed := "closed"
	updated, err := repo.Update(lead.ID, &UpdateLeadRequest{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "closed", updated.Status)

	_, err = repo.SoftDelete(lead.ID)
	require.NoError(t, err)

	_, err = repo.Get(lead.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
