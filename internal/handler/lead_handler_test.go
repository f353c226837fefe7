package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadResponse struct {
	ID            uint   `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
	Source        string `json:"source"`
	IsActive      bool   `json:"is_active"`
	ActivityCount int64  `json:"activity_count"`
}

func TestLeadLifecycle(t *testing.T) {
	e := newTestApp(t)
	token := registerAndLogin(t, e, "alee")

	// Create: defaults applied
	rec := doRequest(t, e, http.MethodPost, "/api/leads", token, map[string]interface{}{
		"first_name": "Ann",
		"last_name":  "Lee",
		"email":      "ann@x.com",
		"phone":      "555-0100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var lead leadResponse
	decodeBody(t, rec, &lead)
	assert.Equal(t, "new", lead.Status)
	assert.Equal(t, "website", lead.Source)
	assert.True(t, lead.IsActive)

	// Partial update: only status changes, phone survives
	rec = doRequest(t, e, http.MethodPut, fmt.Sprintf("/api/leads/%d", lead.ID), token, map[string]interface{}{
		"status": "closed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated leadResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, "closed", updated.Status)
	assert.Equal(t, "555-0100", updated.Phone)

	// Soft delete returns the now-inactive record
	rec = doRequest(t, e, http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted leadResponse
	decodeBody(t, rec, &deleted)
	assert.False(t, deleted.IsActive)
	assert.Equal(t, "ann@x.com", deleted.Email)

	// Gone from every read path afterwards
	rec = doRequest(t, e, http.MethodGet, fmt.Sprintf("/api/leads/%d", lead.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadList_SearchAndPagination(t *testing.T) {
	e := newTestApp(t)
	token := registerAndLogin(t, e, "alee")

	for _, lead := range []map[string]interface{}{
		{"first_name": "John", "last_name": "Smith", "email": "john@x.com", "phone": "1"},
		{"first_name": "Sarah", "last_name": "SMITH", "email": "sarah@x.com", "phone": "2"},
		{"first_name": "Will", "last_name": "Turner", "email": "blacksmith@x.com", "phone": "3"},
		{"first_name": "Ann", "last_name": "Lee", "email": "ann@x.com", "phone": "4"},
	} {
		rec := doRequest(t, e, http.MethodPost, "/api/leads", token, lead)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, e, http.MethodGet, "/api/leads?search=smith", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []leadResponse
	decodeBody(t, rec, &matches)
	assert.Len(t, matches, 3)

	rec = doRequest(t, e, http.MethodGet, "/api/leads?skip=0&limit=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page []leadResponse
	decodeBody(t, rec, &page)
	assert.Len(t, page, 2)
}

func TestLeadCreate_MissingFields(t *testing.T) {
	e := newTestApp(t)
	token := registerAndLogin(t, e, "alee")

	rec := doRequest(t, e, http.MethodPost, "/api/leads", token, map[string]interface{}{
		"first_name": "Ann",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
