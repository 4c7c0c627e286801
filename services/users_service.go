package services

import (
	"errors"
	"strings"

	"prediction-pool-system/models"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// nameCaser title-cases display names; the audience is Brazilian.
var nameCaser = cases.Title(language.BrazilianPortuguese)

// UserService manages the local user mirror.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// UserInput is the upsert payload.
type UserInput struct {
	AuthID string `json:"auth_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	State  string `json:"state,omitempty"`
	City   string `json:"city,omitempty"`
}

// UpsertUser creates the user or, when the email is already registered,
// refreshes their profile fields.
func (s *UserService) UpsertUser(input UserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if email == "" {
		return nil, validationErr("email", "must not be empty")
	}
	name = nameCaser.String(name)

	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"name":  name,
			"phone": input.Phone,
			"state": input.State,
			"city":  input.City,
		}
		if input.AuthID != "" {
			updates["auth_id"] = input.AuthID
		}
		if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:     uuid.NewString(),
			AuthID: input.AuthID,
			Name:   name,
			Email:  email,
			Phone:  input.Phone,
			State:  input.State,
			City:   input.City,
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	default:
		return nil, err
	}
}

// GetUserByID resolves a user by primary id, falling back to the
// upstream auth id for clients that still send it.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.DB.First(&user, "auth_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail looks a user up by email or returns ErrNotFound.
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers filters users by name or email substring.
func (s *UserService) SearchUsers(query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	db := s.DB.Model(&models.User{}).Limit(limit)
	if q := strings.TrimSpace(query); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
