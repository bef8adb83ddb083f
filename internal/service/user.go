package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/donovan-vargas/recipe-app-api/internal/models"
)

// MinPasswordLength mirrors the registration contract: anything shorter is
// rejected with a field-level validation error.
const MinPasswordLength = 5

// UserService owns user identity records.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail lower-cases and trims an email address. All lookups and
// writes go through this so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new user. The plaintext password is never stored,
// only its bcrypt hash.
func (s *UserService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.create(ctx, email, password, name, false)
}

// CreateSuperuser registers a user with staff and superuser flags set.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *UserService) create(ctx context.Context, email, password, name string, super bool) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, newValidationError("email", "this field may not be blank")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, newValidationError("email", "enter a valid email address")
	}
	// Keep only the address itself; a display-name form like
	// "Name <a@b.com>" must not reach the unique index.
	email = addr.Address
	if len(password) < MinPasswordLength {
		return nil, newValidationError("password", "ensure this field has at least 5 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
	}
	// The unique index is the single authority on duplicates, so two
	// concurrent registrations cannot both slip through a pre-check.
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError("email", "user with this email already exists")
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials against the stored hash. Any mismatch,
// including an unknown email or a deactivated account, yields
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Name     *string
	Password *string
}

// UpdateUser applies a partial update to the user's profile, re-hashing the
// password when one is supplied.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, newValidationError("password", "ensure this field has at least 5 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
