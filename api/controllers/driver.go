package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parkline-app/parkline-backend/api/responses"
	"github.com/parkline-app/parkline-backend/api/validators"
	"github.com/parkline-app/parkline-backend/internal/dispatch"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/logger"
)

type updateJobStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// DriverAvailableJobs returns the unclaimed job pool for the calling valet.
func DriverAvailableJobs(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		driverID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAvailable(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// DriverAcceptJob claims an open job for the calling valet.
func DriverAcceptJob(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		driverID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticketID, err := pathUUID(chi.URLParam(r, "ticketId"), "ticket id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Accept(r.Context(), driverID, ticketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithTicketID(r.Context(), ticket.ID.String())
		logg.Info(ctx, "job accepted")
		responses.WriteSuccess(w, ticket)
	}
}

// DriverCurrentJob returns the valet's in-progress job, or null when idle.
func DriverCurrentJob(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		driverID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.CurrentJob(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ticket)
	}
}

// DriverUpdateJobStatus advances the valet's job along its lifecycle.
func DriverUpdateJobStatus(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		driverID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticketID, err := pathUUID(chi.URLParam(r, "ticketId"), "ticket id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateJobStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseTicketStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		ticket, err := svc.UpdateJobStatus(r.Context(), driverID, ticketID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithTicketID(r.Context(), ticket.ID.String())
		logg.Info(ctx, "job status updated")
		responses.WriteSuccess(w, ticket)
	}
}

// DriverJobHistory returns the valet's finished work.
func DriverJobHistory(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		driverID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.JobHistory(r.Context(), driverID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
