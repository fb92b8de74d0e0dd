package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const minPasswordLength = 8

type UserService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewUserService(db *gorm.DB, log zerolog.Logger) *UserService {
	return &UserService{DB: db, log: log.With().Str("service", "users").Logger()}
}

type UserInput struct {
	Email    string
	Password string
	Role     models.Role
}

// CreateUser stores a user with a bcrypt hash. The very first user of an empty
// system always becomes the owner, whatever role was asked for.
func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	role := in.Role
	if role == "" {
		role = models.RoleGuest
	}
	if !role.IsValid() {
		return nil, invalid("role", "is not a known role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Email: email, PasswordHash: string(hash), IsActive: true}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking read so two first registrations cannot both see an empty table.
		var count int64
		if err := tx.Model(&models.User{}).Clauses(clause.Locking{Strength: "UPDATE"}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		user.Role = role
		if count == 0 {
			user.Role = models.RoleOwner
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: user %q already exists", ErrDuplicate, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	loggerFor(ctx, s.log).Info().Uint("user_id", user.ID).Str("role", user.Role.String()).Msg("user created")
	return &user, nil
}

// Register is the public sign-up path; it can only create guests, except for the bootstrap owner.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, UserInput{Email: email, Password: password, Role: models.RoleGuest})
}

func (s *UserService) ListEmployees(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Where("role IN ?", models.EmployeeRoles).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}

// Authenticate checks the credentials of an active user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
