package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/db"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
)

type vehicleRepository interface {
	Create(ctx context.Context, dto CreateVehicleDTO) (*models.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Vehicle, error)
}

// Service exposes vehicle operations scoped to the owning user.
type Service interface {
	Add(ctx context.Context, ownerID uuid.UUID, input AddVehicleInput) (*VehicleDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]VehicleDTO, error)
	Get(ctx context.Context, ownerID, vehicleID uuid.UUID) (*VehicleDTO, error)
}

// AddVehicleInput captures the data required to register a vehicle.
type AddVehicleInput struct {
	PlateNumber string
	Make        string
	Model       string
	Color       string
}

type service struct {
	repo vehicleRepository
}

// NewService builds a vehicle service with the provided repository.
func NewService(repo vehicleRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Add(ctx context.Context, ownerID uuid.UUID, input AddVehicleInput) (*VehicleDTO, error) {
	plate := strings.ToUpper(strings.TrimSpace(input.PlateNumber))
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate number is required")
	}

	vehicle, err := s.repo.Create(ctx, CreateVehicleDTO{
		OwnerID:     ownerID,
		PlateNumber: plate,
		Make:        input.Make,
		Model:       input.Model,
		Color:       input.Color,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "vehicles_plate_number_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "plate number already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]VehicleDTO, error) {
	list, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	out := make([]VehicleDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, ownerID, vehicleID uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return FromModel(vehicle), nil
}
