package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
)

const vehiclesTestSchema = `
CREATE TABLE vehicles (
    id           TEXT PRIMARY KEY,
    owner_id     TEXT NOT NULL,
    plate_number TEXT NOT NULL,
    make         TEXT NOT NULL,
    model        TEXT NOT NULL,
    color        TEXT NOT NULL,
    created_at   DATETIME,
    updated_at   DATETIME
);
CREATE UNIQUE INDEX vehicles_plate_number_key ON vehicles (plate_number);
`

func setupVehiclesService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.Exec(vehiclesTestSchema).Error)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func TestAddNormalizesPlate(t *testing.T) {
	svc := setupVehiclesService(t)
	ctx := context.Background()

	dto, err := svc.Add(ctx, uuid.New(), AddVehicleInput{
		PlateNumber: "  mh02ab1234 ",
		Make:        "Honda",
		Model:       "City",
		Color:       "White",
	})
	require.NoError(t, err)
	require.Equal(t, "MH02AB1234", dto.PlateNumber)
}

func TestAddRequiresPlate(t *testing.T) {
	svc := setupVehiclesService(t)

	_, err := svc.Add(context.Background(), uuid.New(), AddVehicleInput{PlateNumber: "   "})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestAddRejectsDuplicatePlate(t *testing.T) {
	svc := setupVehiclesService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, uuid.New(), AddVehicleInput{PlateNumber: "MH02AB1234", Make: "Honda", Model: "City", Color: "White"})
	require.NoError(t, err)

	// the same plate registered by anyone is a conflict, case-insensitively
	_, err = svc.Add(ctx, uuid.New(), AddVehicleInput{PlateNumber: "mh02ab1234", Make: "Honda", Model: "City", Color: "Black"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestListScopedToOwner(t *testing.T) {
	svc := setupVehiclesService(t)
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()

	_, err := svc.Add(ctx, owner, AddVehicleInput{PlateNumber: "MH02AB1111", Make: "Honda", Model: "City", Color: "White"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, other, AddVehicleInput{PlateNumber: "MH02AB2222", Make: "Tata", Model: "Nexon", Color: "Blue"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "MH02AB1111", mine[0].PlateNumber)
}

func TestGetHidesForeignVehicle(t *testing.T) {
	svc := setupVehiclesService(t)
	ctx := context.Background()

	owner := uuid.New()
	dto, err := svc.Add(ctx, owner, AddVehicleInput{PlateNumber: "MH02AB1234", Make: "Honda", Model: "City", Color: "White"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, dto.ID)
	require.NoError(t, err)
	require.Equal(t, dto.ID, got.ID)

	_, err = svc.Get(ctx, uuid.New(), dto.ID)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Get(ctx, owner, uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
