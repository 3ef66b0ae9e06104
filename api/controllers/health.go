package controllers

import (
	"context"
	"net/http"

	"github.com/blumenwerk/shop-backend/api/responses"
	"github.com/blumenwerk/shop-backend/pkg/config"
	pkgerrors "github.com/blumenwerk/shop-backend/pkg/errors"
	"github.com/blumenwerk/shop-backend/pkg/logger"
)

// Pinger is the dependency surface readiness checks probe.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness; a nil pinger (redis disabled) is skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Shop-Env", cfg.App.Env)
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
