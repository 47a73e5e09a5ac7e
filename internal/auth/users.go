package auth

import (
	"context"
	"errors"
	"strings"

	"sjwi-backend/internal/models"
	"sjwi-backend/internal/pkg/constants"
	"sjwi-backend/internal/pkg/response"
	"sjwi-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserFieldsRequired = errors.New("Fullname, email and password are required")
	ErrInvalidRole        = errors.New("Invalid role")
	ErrUserExists         = errors.New("User with this email already exists")
)

// CreateUserInput for operator provisioning.
type CreateUserInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser provisions an operator account with a bcrypt password hash.
// Role defaults to "user".
func CreateUser(db *gorm.DB, in CreateUserInput) (*models.User, error) {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.TrimSpace(in.Email)
	if in.Fullname == "" || in.Email == "" || in.Password == "" {
		return nil, ErrUserFieldsRequired
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	role := in.Role
	if role == "" {
		role = constants.User
	}
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// UserHandlers holds dependencies for the admin-only user endpoints.
type UserHandlers struct {
	DB *gorm.DB
}

// CreateUser POST /api/v1/users — admin only.
func (h *UserHandlers) CreateUser(c *fiber.Ctx) error {
	var in CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, ErrUserFieldsRequired.Error(), fiber.StatusBadRequest, nil)
	}
	user, err := CreateUser(h.DB, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserFieldsRequired), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidRole):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrUserExists):
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, "User creation failed", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "User created successfully", user, nil)
}

// ListUsers GET /api/v1/users — admin only.
func (h *UserHandlers) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.WithContext(context.Background()).Order("created_at ASC").Find(&users).Error; err != nil {
		return response.Error(c, "Error fetching users", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Users fetched successfully", users, nil)
}
