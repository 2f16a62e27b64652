package drivers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/security"
)

const driversTestSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'USER',
    created_at    DATETIME,
    updated_at    DATETIME
);
CREATE UNIQUE INDEX users_email_key ON users (email);

CREATE TABLE driver_profiles (
    id             TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'PENDING',
    phone          TEXT,
    address        TEXT,
    dob            TEXT,
    license_number TEXT,
    license_expiry TEXT,
    photo          TEXT,
    license_photo  TEXT,
    created_at     DATETIME,
    updated_at     DATETIME
);
CREATE UNIQUE INDEX driver_profiles_user_id_key ON driver_profiles (user_id);
`

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func setupDriversService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.Exec(driversTestSchema).Error)

	svc, err := NewService(NewRepository(conn), users.NewRepository(conn), gormTxRunner{db: conn}, testPasswordConfig())
	require.NoError(t, err)
	return svc, conn
}

func TestRegisterCreatesDriverWithPendingProfile(t *testing.T) {
	svc, conn := setupDriversService(t)
	ctx := context.Background()

	phone := "+919820012345"
	dto, tempPassword, err := svc.Register(ctx, RegisterDriverInput{
		Name:  "Ravi Kumar",
		Email: "Ravi.Kumar@parkline.in",
		Phone: &phone,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tempPassword)
	require.Equal(t, enums.DriverStatusPending, dto.Status)
	require.Equal(t, "ravi.kumar@parkline.in", dto.Email)

	usersRepo := users.NewRepository(conn)
	account, err := usersRepo.FindByEmail(ctx, "ravi.kumar@parkline.in")
	require.NoError(t, err)
	require.Equal(t, enums.RoleDriver, account.Role)

	ok, err := security.VerifyPassword(tempPassword, account.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := setupDriversService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Ravi", Email: "ravi@parkline.in"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterDriverInput{Name: "Other", Email: "RAVI@parkline.in"})
	require.Error(t, err)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestRegisterValidatesInput(t *testing.T) {
	svc, _ := setupDriversService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Ravi", Email: "not-an-email"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, _, err = svc.Register(ctx, RegisterDriverInput{Name: "   ", Email: "ravi@parkline.in"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestApproveActivatesDriver(t *testing.T) {
	svc, _ := setupDriversService(t)
	ctx := context.Background()

	dto, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Ravi", Email: "ravi@parkline.in"})
	require.NoError(t, err)

	profile, err := svc.Approve(ctx, dto.UserID)
	require.NoError(t, err)
	require.Equal(t, enums.DriverStatusActive, profile.Status)

	// repeat approval is a no-op
	profile, err = svc.Approve(ctx, dto.UserID)
	require.NoError(t, err)
	require.Equal(t, enums.DriverStatusActive, profile.Status)
}

func TestRejectAfterApprove(t *testing.T) {
	svc, _ := setupDriversService(t)
	ctx := context.Background()

	dto, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Ravi", Email: "ravi@parkline.in"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, dto.UserID)
	require.NoError(t, err)

	profile, err := svc.Reject(ctx, dto.UserID)
	require.NoError(t, err)
	require.Equal(t, enums.DriverStatusRejected, profile.Status)
}

func TestApproveUnknownDriver(t *testing.T) {
	svc, _ := setupDriversService(t)

	_, err := svc.Approve(context.Background(), uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListAndPendingApprovals(t *testing.T) {
	svc, _ := setupDriversService(t)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Ravi", Email: "ravi@parkline.in"})
	require.NoError(t, err)
	second, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Asha", Email: "asha@parkline.in"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.UserID)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	pending, err := svc.PendingApprovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, second.UserID, pending[0].UserID)
	require.Equal(t, "Asha", pending[0].Name)
}

func TestProfileFor(t *testing.T) {
	svc, _ := setupDriversService(t)
	ctx := context.Background()

	dto, _, err := svc.Register(ctx, RegisterDriverInput{Name: "Ravi", Email: "ravi@parkline.in"})
	require.NoError(t, err)

	profile, err := svc.ProfileFor(ctx, dto.UserID)
	require.NoError(t, err)
	require.Equal(t, enums.DriverStatusPending, profile.Status)

	_, err = svc.ProfileFor(ctx, uuid.New())
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
