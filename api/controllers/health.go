package controllers

import (
	"net/http"
	"time"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/pkg/config"
	"github.com/autovista-ai/autovista-backend/pkg/db"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AutoVista-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{
			"status":    "healthy",
			"message":   "Automotive Analytics API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HealthReady verifies database connectivity before reporting ready.
func HealthReady(cfg *config.Config, client *db.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AutoVista-Env", cfg.App.Env)
		if client != nil {
			if err := client.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
