package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Solomon-mithra/CRM-backend/internal/repository"
	"github.com/Solomon-mithra/CRM-backend/pkg/jwtutil"
	"github.com/Solomon-mithra/CRM-backend/pkg/logger"
	"github.com/Solomon-mithra/CRM-backend/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and the current-user lookup
type AuthHandler struct {
	accounts *repository.AccountDirectory
	jwt      *jwtutil.JWTUtil
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(accounts *repository.AccountDirectory, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwt: jwt}
}

// Register creates a new user account
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req repository.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		log.Warn("Incomplete registration data", zap.String("username", req.Username))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "username, email and password are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.accounts.Create(&req)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			log.Warn("Username or email already registered", zap.String("username", req.Username))
			prometheus.RecordAuthError("duplicate_account")
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already registered"})
		}
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered", zap.String("username", user.Username))
	return c.JSON(http.StatusCreated, user)
}

// Login authenticates a username/password pair and issues a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	user, err := h.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			log.Warn("Login failed", zap.String("username", req.Username))
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Error("Login lookup failed", zap.Error(err))
		prometheus.RecordAuthError("db_error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in", zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me returns the account identified by the request's bearer token
func (h *AuthHandler) Me(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := c.Get("user_id").(uint)
	if !ok {
		log.Error("Failed to get user ID from context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	user, err := h.accounts.GetByID(userID)
	if err != nil {
		log.Error("Failed to load current user", zap.Uint("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, user)
}
