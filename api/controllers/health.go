package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/educateagirl/storefront-api/api/responses"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

const (
	envHeader    = "X-EAG-Env"
	readyTimeout = 2 * time.Second
)

// ReadinessCheck is one dependency probed by HealthReady.
type ReadinessCheck struct {
	Name string
	Ping func(context.Context) error
}

func HealthLive(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready once every check answers within readyTimeout.
func HealthReady(env string, logg *logger.Logger, checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, check := range checks {
			if check.Ping == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, check.Name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
