package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkline-app/parkline-backend/api/responses"
	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/internal/reports"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/logger"
)

// AdminStats returns the all-time site rollup.
func AdminStats(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		stats, err := svc.AdminStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// AdminSummary returns the rollup plus outstanding driver approvals.
func AdminSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		summary, err := svc.AdminSummary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// AdminPendingDrivers lists valets waiting on an approval decision.
func AdminPendingDrivers(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		pending, err := svc.PendingApprovals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pending)
	}
}

// AdminApproveDriver activates a pending valet.
func AdminApproveDriver(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		driverID, err := pathUUID(chi.URLParam(r, "driverId"), "driver id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Approve(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), driverID.String())
		logg.Info(ctx, "driver approved")
		responses.WriteSuccess(w, profile)
	}
}

// AdminRejectDriver declines a valet's onboarding.
func AdminRejectDriver(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "driver service unavailable"))
			return
		}

		driverID, err := pathUUID(chi.URLParam(r, "driverId"), "driver id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Reject(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUserID(r.Context(), driverID.String())
		logg.Info(ctx, "driver rejected")
		responses.WriteSuccess(w, profile)
	}
}
