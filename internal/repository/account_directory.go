package repository

import (
	"errors"
	"fmt"

	"github.com/Solomon-mithra/CRM-backend/internal/model"
	"github.com/Solomon-mithra/CRM-backend/pkg/jwtutil"
	"gorm.io/gorm"
)

// AccountDirectory creates user accounts and looks them up for authentication
type AccountDirectory struct {
	db *gorm.DB
}

// NewAccountDirectory creates an account directory backed by the given database
func NewAccountDirectory(db *gorm.DB) *AccountDirectory {
	return &AccountDirectory{db: db}
}

// CreateUserRequest holds the fields for account registration
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Create registers a new account with a hashed password. Duplicate
// usernames or emails are reported as ErrConflict.
func (d *AccountDirectory) Create(req *CreateUserRequest) (*model.User, error) {
	var count int64
	if err := d.db.Model(&model.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hashed, err := jwtutil.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := d.db.Create(&user).Error; err != nil {
		// The unique indexes still back the pre-check under concurrency
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByUsername looks up an account by its unique username
func (d *AccountDirectory) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// GetByID looks up an account by primary key
func (d *AccountDirectory) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := d.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password both return ErrInvalidCredentials so the caller cannot tell
// which factor failed.
func (d *AccountDirectory) Authenticate(username, password string) (*model.User, error) {
	user, err := d.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !jwtutil.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
