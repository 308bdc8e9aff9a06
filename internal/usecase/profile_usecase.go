package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileAlreadyExists = errors.New("user already has a profile for this role")
	ErrRoleMismatch         = errors.New("user role does not match the profile type")
	ErrProfileInUse         = errors.New("profile is still referenced by prescriptions")
	ErrInvalidDateFormat    = errors.New("invalid date format, use YYYY-MM-DD")
)

// profileOwner loads the account a role profile is about to be attached to and checks
// that its role matches.
func profileOwner(ctx context.Context, tx *gorm.DB, userRepo repository.UserRepository, userID uuid.UUID, role string) (*entity.User, error) {
	user, err := userRepo.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role != role {
		return nil, ErrRoleMismatch
	}
	return user, nil
}

// parseBirthDate accepts YYYY-MM-DD or a full RFC3339 timestamp. A nil or blank value clears the date.
func parseBirthDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}
