package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/parkline-app/parkline-backend/api/responses"
	"github.com/parkline-app/parkline-backend/pkg/config"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/logger"
)

const readyCheckTimeout = 2 * time.Second

// Pinger is the probe contract shared by the backing stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Parkline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every backing store and reports the first failure set.
// A nil pinger is treated as not wired and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		var probeErr error
		checks := []struct {
			name string
			p    Pinger
		}{
			{"postgres", dbP},
			{"redis", redisP},
		}
		for _, check := range checks {
			if check.p == nil {
				continue
			}
			if err := check.p.Ping(ctx); err != nil {
				ctx := logg.WithField(r.Context(), "dependency", check.name)
				logg.Error(ctx, "readiness probe failed", err)
				probeErr = multierr.Append(probeErr, err)
			}
		}

		if probeErr != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, probeErr, "dependencies unavailable"))
			return
		}

		w.Header().Set("X-Parkline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
