package drivers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/db"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/security"
)

type profileRepository interface {
	CreateWithTx(tx *gorm.DB, dto CreateProfileDTO) (*models.DriverProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.DriverStatus) (int64, error)
	ListJoined(ctx context.Context, status *enums.DriverStatus) ([]DriverDTO, error)
}

type usersRepository interface {
	CreateWithTx(tx *gorm.DB, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes driver onboarding operations.
type Service interface {
	Register(ctx context.Context, input RegisterDriverInput) (*DriverDTO, string, error)
	Approve(ctx context.Context, driverUserID uuid.UUID) (*ProfileDTO, error)
	Reject(ctx context.Context, driverUserID uuid.UUID) (*ProfileDTO, error)
	List(ctx context.Context) ([]DriverDTO, error)
	PendingApprovals(ctx context.Context) ([]DriverDTO, error)
	ProfileFor(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
}

// RegisterDriverInput captures the manager add-driver payload.
type RegisterDriverInput struct {
	Name          string
	Email         string
	Phone         *string
	Address       *string
	DOB           *string
	LicenseNumber *string
	LicenseExpiry *string
}

type service struct {
	profiles    profileRepository
	users       usersRepository
	tx          txRunner
	passwordCfg config.PasswordConfig
}

// NewService builds a driver service with the provided repositories.
func NewService(profiles profileRepository, usersRepo usersRepository, tx txRunner, passwordCfg config.PasswordConfig) (Service, error) {
	if profiles == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		profiles:    profiles,
		users:       usersRepo,
		tx:          tx,
		passwordCfg: passwordCfg,
	}, nil
}

// Register creates a DRIVER account plus a PENDING profile in one transaction
// and returns the generated temporary password for handoff.
func (s *service) Register(ctx context.Context, input RegisterDriverInput) (*DriverDTO, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	tempPassword, err := security.GenerateTempPassword(16)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	var profile *models.DriverProfile
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		user, err = s.users.CreateWithTx(tx, users.CreateUserDTO{
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Role:         enums.RoleDriver,
		})
		if err != nil {
			return err
		}
		profile, err = s.profiles.CreateWithTx(tx, CreateProfileDTO{
			UserID:        user.ID,
			Phone:         input.Phone,
			Address:       input.Address,
			DOB:           input.DOB,
			LicenseNumber: input.LicenseNumber,
			LicenseExpiry: input.LicenseExpiry,
		})
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register driver")
	}

	dto := &DriverDTO{
		UserID:        user.ID,
		ProfileID:     profile.ID,
		Name:          user.Name,
		Email:         user.Email,
		Status:        profile.Status,
		Phone:         profile.Phone,
		LicenseNumber: profile.LicenseNumber,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
	}
	return dto, tempPassword, nil
}

// Approve moves the profile to ACTIVE. Re-approving an active driver is a no-op.
func (s *service) Approve(ctx context.Context, driverUserID uuid.UUID) (*ProfileDTO, error) {
	return s.setStatus(ctx, driverUserID, enums.DriverStatusActive)
}

// Reject moves the profile to REJECTED. Re-rejecting is a no-op.
func (s *service) Reject(ctx context.Context, driverUserID uuid.UUID) (*ProfileDTO, error) {
	return s.setStatus(ctx, driverUserID, enums.DriverStatusRejected)
}

func (s *service) setStatus(ctx context.Context, driverUserID uuid.UUID, status enums.DriverStatus) (*ProfileDTO, error) {
	profile, err := s.profiles.FindByUserID(ctx, driverUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
	}

	if profile.Status != status {
		if _, err := s.profiles.UpdateStatus(ctx, driverUserID, status); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update driver status")
		}
		profile.Status = status
	}
	return ProfileFromModel(profile), nil
}

func (s *service) List(ctx context.Context) ([]DriverDTO, error) {
	list, err := s.profiles.ListJoined(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drivers")
	}
	return list, nil
}

func (s *service) PendingApprovals(ctx context.Context) ([]DriverDTO, error) {
	pending := enums.DriverStatusPending
	list, err := s.profiles.ListJoined(ctx, &pending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending drivers")
	}
	return list, nil
}

// ProfileFor returns the profile for the given user, or NotFound.
func (s *service) ProfileFor(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "driver profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
	}
	return ProfileFromModel(profile), nil
}
