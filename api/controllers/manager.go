package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkline-app/parkline-backend/api/responses"
	"github.com/parkline-app/parkline-backend/api/validators"
	"github.com/parkline-app/parkline-backend/internal/dispatch"
	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/internal/reports"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/logger"
)

type registerDriverRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=120"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	DOB           *string `json:"dob,omitempty"`
	LicenseNumber *string `json:"license_number,omitempty"`
	LicenseExpiry *string `json:"license_expiry,omitempty"`
}

type registerDriverResponse struct {
	Driver       *drivers.DriverDTO `json:"driver"`
	TempPassword string             `json:"temp_password"`
}

// ManagerStats returns the shift dashboard headline numbers.
func ManagerStats(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		stats, err := svc.ManagerStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// ManagerSummary returns the stats plus the live operations feed in one call.
func ManagerSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		summary, err := svc.ManagerSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// ManagerRecentOperations returns the site's latest ticket movements.
func ManagerRecentOperations(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		recent, err := svc.RecentOperations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, recent)
	}
}

// ManagerRegisterDriver onboards a valet and returns the temporary password
// exactly once, for handoff out of band.
func ManagerRegisterDriver(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		var body registerDriverRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		driver, tempPassword, err := svc.Register(r.Context(), drivers.RegisterDriverInput{
			Name:          body.Name,
			Email:         body.Email,
			Phone:         body.Phone,
			Address:       body.Address,
			DOB:           body.DOB,
			LicenseNumber: body.LicenseNumber,
			LicenseExpiry: body.LicenseExpiry,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), driver.UserID.String())
		logg.Info(ctx, "driver registered")
		responses.WriteSuccessStatus(w, http.StatusCreated, registerDriverResponse{
			Driver:       driver,
			TempPassword: tempPassword,
		})
	}
}

// ManagerListDrivers returns every onboarded valet.
func ManagerListDrivers(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ManagerAssignValet force-assigns an active valet to a ticket, reassigning a
// held job if needed.
func ManagerAssignValet(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		ticketID, err := pathUUID(chi.URLParam(r, "ticketId"), "ticket id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		driverID, err := pathUUID(chi.URLParam(r, "driverId"), "driver id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.AssignValet(r.Context(), ticketID, driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithTicketID(r.Context(), ticket.ID.String())
		logg.Info(ctx, "valet assigned")
		responses.WriteSuccess(w, ticket)
	}
}
