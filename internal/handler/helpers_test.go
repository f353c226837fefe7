package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Solomon-mithra/CRM-backend/internal/middleware"
	"github.com/Solomon-mithra/CRM-backend/internal/repository"
	"github.com/Solomon-mithra/CRM-backend/pkg/config"
	"github.com/Solomon-mithra/CRM-backend/pkg/database"
	"github.com/Solomon-mithra/CRM-backend/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full route table against an in-memory database
func newTestApp(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	jwtUtil := jwtutil.New(&config.JWTConfig{
		SigningKey:    "test-secret",
		Algorithm:     "HS256",
		ExpireMinutes: 30,
	})

	accounts := repository.NewAccountDirectory(db)
	leads := repository.NewLeadRepository(db)
	activities := repository.NewActivityLog(db)
	dashboard := repository.NewDashboardAggregator(db)

	authHandler := NewAuthHandler(accounts, jwtUtil)
	leadHandler := NewLeadHandler(leads, activities)
	activityHandler := NewActivityHandler(activities, leads)
	dashboardHandler := NewDashboardHandler(dashboard)

	e := echo.New()
	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	auth := middleware.AuthMiddleware(jwtUtil)
	users.GET("/me", authHandler.Me, auth)

	leadRoutes := api.Group("/leads", auth)
	leadRoutes.POST("", leadHandler.Create)
	leadRoutes.GET("", leadHandler.List)
	leadRoutes.GET("/:id", leadHandler.Get)
	leadRoutes.PUT("/:id", leadHandler.Update)
	leadRoutes.DELETE("/:id", leadHandler.Delete)
	leadRoutes.POST("/:id/activities", activityHandler.Create)
	leadRoutes.GET("/:id/activities", activityHandler.List)

	dashboardRoutes := api.Group("/dashboard", auth)
	dashboardRoutes.GET("/statistics", dashboardHandler.Statistics)

	return e
}

// doRequest performs a JSON request against the test app
func doRequest(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// decodeBody decodes a JSON response body into out
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// registerAndLogin creates an account and returns a valid bearer token
func registerAndLogin(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()

	rec := doRequest(t, e, http.MethodPost, "/api/users/register", "", map[string]string{
		"username":   username,
		"email":      username + "@example.com",
		"password":   "hunter2",
		"first_name": "Ann",
		"last_name":  "Lee",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": username,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}
