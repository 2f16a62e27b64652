package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/internal/vehicles"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/db"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	"github.com/parkline-app/parkline-backend/pkg/logger"
	"github.com/parkline-app/parkline-backend/pkg/security"
)

// Seeds the local database with one account per role plus a demo vehicle.
// Safe to re-run: existing emails are left untouched.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(ctx, "refusing to seed a production database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	userRepo := users.NewRepository(dbClient.DB())
	vehicleRepo := vehicles.NewRepository(dbClient.DB())

	accounts := []struct {
		email    string
		name     string
		role     enums.Role
		password string
	}{
		{"admin@parkline.in", "Site Admin", enums.RoleSuperAdmin, "admin-dev-password"},
		{"manager@parkline.in", "Shift Manager", enums.RoleManager, "manager-dev-password"},
		{"rider@parkline.in", "Demo Rider", enums.RoleUser, "rider-dev-password"},
	}

	var riderID *string
	for _, account := range accounts {
		existing, err := userRepo.FindByEmail(ctx, account.email)
		if err == nil {
			logg.Info(logg.WithField(ctx, "email", account.email), "account already seeded")
			if account.role == enums.RoleUser {
				id := existing.ID.String()
				riderID = &id
			}
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logg.Error(ctx, "failed to look up account", err)
			os.Exit(1)
		}

		hash, err := security.HashPassword(account.password, cfg.Password)
		if err != nil {
			logg.Error(ctx, "failed to hash password", err)
			os.Exit(1)
		}

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        account.email,
			Name:         account.name,
			PasswordHash: hash,
			Role:         account.role,
		})
		if err != nil {
			logg.Error(ctx, "failed to seed account", err)
			os.Exit(1)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"email": account.email,
			"role":  account.role.String(),
		}), "account seeded")

		if account.role == enums.RoleUser {
			id := created.ID.String()
			riderID = &id
		}
	}

	if riderID != nil {
		rider, err := userRepo.FindByEmail(ctx, "rider@parkline.in")
		if err != nil {
			logg.Error(ctx, "failed to reload rider", err)
			os.Exit(1)
		}
		existing, err := vehicleRepo.FindByOwner(ctx, rider.ID)
		if err != nil {
			logg.Error(ctx, "failed to list rider vehicles", err)
			os.Exit(1)
		}
		if len(existing) == 0 {
			if _, err := vehicleRepo.Create(ctx, vehicles.CreateVehicleDTO{
				OwnerID:     rider.ID,
				PlateNumber: "MH02DE1433",
				Make:        "Honda",
				Model:       "City",
				Color:       "White",
			}); err != nil {
				logg.Error(ctx, "failed to seed vehicle", err)
				os.Exit(1)
			}
			logg.Info(ctx, "demo vehicle seeded")
		}
	}

	logg.Info(ctx, "seed complete")
}
