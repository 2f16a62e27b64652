package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

const dispatchTestSchema = `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'USER',
    created_at    DATETIME,
    updated_at    DATETIME
);

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

CREATE TABLE tickets (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    vehicle_id  TEXT NOT NULL,
    valet_id    TEXT,
    gate_id     TEXT NOT NULL,
    spot_number TEXT,
    status      TEXT NOT NULL DEFAULT 'ACTIVE',
    amount      NUMERIC NOT NULL,
    location    TEXT NOT NULL,
    created_at  DATETIME,
    updated_at  DATETIME,
    exit_time   DATETIME
);
`

func setupDispatchTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.Exec(dispatchTestSchema).Error)
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@parkline.in",
		PasswordHash: "x",
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func seedTicket(t *testing.T, conn *gorm.DB, userID uuid.UUID, status enums.TicketStatus, valetID *uuid.UUID) *models.Ticket {
	t.Helper()
	vehicle := &models.Vehicle{
		ID:          uuid.New(),
		OwnerID:     userID,
		PlateNumber: "MH02" + uuid.NewString()[:8],
		Make:        "Honda",
		Model:       "City",
		Color:       "White",
	}
	require.NoError(t, conn.Create(vehicle).Error)

	spot := "A-" + uuid.NewString()[:4]
	ticket := &models.Ticket{
		ID:         uuid.New(),
		UserID:     userID,
		VehicleID:  vehicle.ID,
		ValetID:    valetID,
		GateID:     "GATE-1",
		SpotNumber: &spot,
		Status:     status,
		Amount:     decimal.NewFromInt(150),
		Location:   "Inorbit Mall - Malad",
	}
	require.NoError(t, conn.Create(ticket).Error)
	return ticket
}

func TestRepositoryAcceptClaimsParkingJob(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)
	ticket := seedTicket(t, conn, rider.ID, enums.TicketStatusActive, nil)

	rows, err := repo.Accept(ctx, driver.ID, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	claimed, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TicketStatusValetAssignedForParking, claimed.Status)
	require.NotNil(t, claimed.ValetID)
	require.Equal(t, driver.ID, *claimed.ValetID)
	require.NotNil(t, claimed.User)
	require.NotNil(t, claimed.Vehicle)
}

func TestRepositoryAcceptClaimsRetrievalJob(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)
	ticket := seedTicket(t, conn, rider.ID, enums.TicketStatusRetrievalRequested, nil)

	rows, err := repo.Accept(ctx, driver.ID, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	claimed, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TicketStatusValetAssignedForRetrieval, claimed.Status)
}

func TestRepositoryAcceptRaceSecondDriverLoses(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	first := seedUser(t, conn, enums.RoleDriver)
	second := seedUser(t, conn, enums.RoleDriver)
	ticket := seedTicket(t, conn, rider.ID, enums.TicketStatusActive, nil)

	rows, err := repo.Accept(ctx, first.ID, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	rows, err = repo.Accept(ctx, second.ID, ticket.ID)
	require.NoError(t, err)
	require.Zero(t, rows)

	claimed, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, *claimed.ValetID)
}

func TestRepositoryAcceptIgnoresNonAcceptableStatuses(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)
	ticket := seedTicket(t, conn, rider.ID, enums.TicketStatusParked, nil)

	rows, err := repo.Accept(ctx, driver.ID, ticket.ID)
	require.NoError(t, err)
	require.Zero(t, rows)
}

func TestRepositoryListAvailable(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)

	open := seedTicket(t, conn, rider.ID, enums.TicketStatusActive, nil)
	retrieval := seedTicket(t, conn, rider.ID, enums.TicketStatusRetrievalRequested, nil)
	seedTicket(t, conn, rider.ID, enums.TicketStatusParked, nil)
	seedTicket(t, conn, rider.ID, enums.TicketStatusActive, &driver.ID)

	list, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	ids := map[uuid.UUID]bool{}
	for _, tk := range list {
		ids[tk.ID] = true
		require.NotNil(t, tk.User)
		require.NotNil(t, tk.Vehicle)
	}
	require.True(t, ids[open.ID])
	require.True(t, ids[retrieval.ID])
}

func TestRepositoryCurrentForDriver(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)

	_, err := repo.CurrentForDriver(ctx, driver.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	job := seedTicket(t, conn, rider.ID, enums.TicketStatusValetAssignedForParking, &driver.ID)
	seedTicket(t, conn, rider.ID, enums.TicketStatusParked, &driver.ID)

	current, err := repo.CurrentForDriver(ctx, driver.ID)
	require.NoError(t, err)
	require.Equal(t, job.ID, current.ID)
}

func TestRepositoryAdvanceStatus(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)
	ticket := seedTicket(t, conn, rider.ID, enums.TicketStatusRetrieving, &driver.ID)

	// stale from-status matches nothing
	rows, err := repo.AdvanceStatus(ctx, driver.ID, ticket.ID,
		enums.TicketStatusValetAssignedForRetrieval, enums.TicketStatusRetrieving, time.Now().UTC())
	require.NoError(t, err)
	require.Zero(t, rows)

	at := time.Now().UTC()
	rows, err = repo.AdvanceStatus(ctx, driver.ID, ticket.ID,
		enums.TicketStatusRetrieving, enums.TicketStatusCompleted, at)
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	done, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, enums.TicketStatusCompleted, done.Status)
	require.NotNil(t, done.ExitTime)
}

func TestRepositoryHistoryForDriver(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	driver := seedUser(t, conn, enums.RoleDriver)

	parked := seedTicket(t, conn, rider.ID, enums.TicketStatusParked, &driver.ID)
	completed := seedTicket(t, conn, rider.ID, enums.TicketStatusCompleted, &driver.ID)
	seedTicket(t, conn, rider.ID, enums.TicketStatusRetrieving, &driver.ID)

	history, err := repo.HistoryForDriver(ctx, driver.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	ids := map[uuid.UUID]bool{}
	for _, tk := range history {
		ids[tk.ID] = true
	}
	require.True(t, ids[parked.ID])
	require.True(t, ids[completed.ID])
}

func TestRepositoryAssignReassignsHeldJob(t *testing.T) {
	conn := setupDispatchTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	rider := seedUser(t, conn, enums.RoleUser)
	first := seedUser(t, conn, enums.RoleDriver)
	second := seedUser(t, conn, enums.RoleDriver)
	ticket := seedTicket(t, conn, rider.ID, enums.TicketStatusValetAssignedForParking, &first.ID)

	rows, err := repo.Assign(ctx, second.ID, ticket.ID,
		enums.TicketStatusValetAssignedForParking, enums.TicketStatusValetAssignedForParking, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)

	claimed, err := repo.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, *claimed.ValetID)
}
