package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

const reportsTestSchema = `
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

type stubApprovals struct {
	pending []drivers.DriverDTO
}

func (s stubApprovals) PendingApprovals(ctx context.Context) ([]drivers.DriverDTO, error) {
	return s.pending, nil
}

func reportsSite() config.SiteConfig {
	return config.SiteConfig{
		Name:          "Inorbit Mall - Malad",
		SpotCapacity:  50,
		SpotPrefix:    "A-",
		FlatFeeAmount: "150",
	}
}

func setupReportsTest(t *testing.T, pending []drivers.DriverDTO) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.Exec(reportsTestSchema).Error)

	svc, err := NewService(NewRepository(conn), stubApprovals{pending: pending}, reportsSite())
	require.NoError(t, err)
	return svc, conn
}

type seedTicketInput struct {
	status    enums.TicketStatus
	amount    int64
	location  string
	createdAt time.Time
	exitTime  *time.Time
}

func seedReportTicket(t *testing.T, conn *gorm.DB, in seedTicketInput) {
	t.Helper()
	location := in.location
	if location == "" {
		location = reportsSite().Name
	}
	ticket := &models.Ticket{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		VehicleID: uuid.New(),
		GateID:    "GATE-1",
		Status:    in.status,
		Amount:    decimal.NewFromInt(in.amount),
		Location:  location,
		CreatedAt: in.createdAt,
		ExitTime:  in.exitTime,
	}
	require.NoError(t, conn.Create(ticket).Error)
}

func injectNow(svc Service, at time.Time) {
	svc.(*service).now = func() time.Time { return at }
}

func TestManagerStats(t *testing.T) {
	svc, conn := setupReportsTest(t, nil)
	ctx := context.Background()

	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	injectNow(svc, now)

	today := now.Add(-2 * time.Hour)
	yesterday := now.Add(-26 * time.Hour)

	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusActive, amount: 150, createdAt: today})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusParked, amount: 150, createdAt: today})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusRetrieving, amount: 150, createdAt: today})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusCompleted, amount: 150, createdAt: today, exitTime: &today})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusCompleted, amount: 150, createdAt: yesterday, exitTime: &yesterday})
	// another site's traffic never leaks into the stats
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusActive, amount: 150, location: "Phoenix Mall - Kurla", createdAt: today})

	stats, err := svc.ManagerStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.ActiveCars)
	require.Equal(t, int64(1), stats.Retrieving)
	require.Equal(t, int64(4), stats.TotalToday)
	require.True(t, stats.RevenueToday.Equal(decimal.NewFromInt(150)), "got %s", stats.RevenueToday)
}

func TestManagerStatsEmptySite(t *testing.T) {
	svc, _ := setupReportsTest(t, nil)

	stats, err := svc.ManagerStats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.ActiveCars)
	require.True(t, stats.RevenueToday.IsZero())
}

func TestRecentOperationsLimit(t *testing.T) {
	svc, conn := setupReportsTest(t, nil)
	ctx := context.Background()

	base := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	for i := 0; i < recentOperationsLimit+5; i++ {
		seedReportTicket(t, conn, seedTicketInput{
			status:    enums.TicketStatusCompleted,
			amount:    150,
			createdAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	recent, err := svc.RecentOperations(ctx)
	require.NoError(t, err)
	require.Len(t, recent, recentOperationsLimit)
}

func TestAdminStats(t *testing.T) {
	svc, conn := setupReportsTest(t, nil)
	ctx := context.Background()

	old := time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusCompleted, amount: 150, createdAt: old, exitTime: &old})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusCompleted, amount: 150, createdAt: recent, exitTime: &recent})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusActive, amount: 150, createdAt: recent})
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusParked, amount: 150, createdAt: recent})

	stats, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.TotalTickets)
	require.Equal(t, int64(2), stats.ActiveParking)
	// all-time collection crosses day boundaries
	require.True(t, stats.TotalCollection.Equal(decimal.NewFromInt(300)), "got %s", stats.TotalCollection)
}

func TestAdminSummaryIncludesPendingApprovals(t *testing.T) {
	pending := []drivers.DriverDTO{
		{UserID: uuid.New(), Name: "Ravi Kumar", Status: enums.DriverStatusPending},
	}
	svc, _ := setupReportsTest(t, pending)

	summary, err := svc.AdminSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.PendingApprovals, 1)
	require.Equal(t, "Ravi Kumar", summary.PendingApprovals[0].Name)
}

func TestManagerSummary(t *testing.T) {
	svc, conn := setupReportsTest(t, nil)
	ctx := context.Background()

	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	injectNow(svc, now)
	seedReportTicket(t, conn, seedTicketInput{status: enums.TicketStatusActive, amount: 150, createdAt: now.Add(-time.Hour)})

	summary, err := svc.ManagerSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), summary.Stats.ActiveCars)
	require.Len(t, summary.RecentOperations, 1)
}
