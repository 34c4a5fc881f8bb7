package controllers

import (
	"net/http"

	"github.com/lucasferreira/fornada-backend/api/responses"
	"github.com/lucasferreira/fornada-backend/pkg/config"
	pkgdb "github.com/lucasferreira/fornada-backend/pkg/db"
	pkgerrors "github.com/lucasferreira/fornada-backend/pkg/errors"
	"github.com/lucasferreira/fornada-backend/pkg/logger"
	pkgredis "github.com/lucasferreira/fornada-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fornada-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness; the database is required, redis is reported
// but does not fail the check.
func HealthReady(cfg *config.Config, db pkgdb.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fornada-Env", cfg.App.Env)

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}

		status := map[string]string{"status": "ready", "redis": "ok"}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				status["redis"] = "unavailable"
			}
		}
		responses.WriteSuccess(w, status)
	}
}
