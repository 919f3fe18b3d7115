package controllers

import (
	"net/http"

	"github.com/educateagirl/storefront-api/api/responses"
	"github.com/educateagirl/storefront-api/api/validators"
	"github.com/educateagirl/storefront-api/internal/settings"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

// GetSetting writes the stored value itself, or null for an unknown key.
func GetSetting(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, "settings")
			return
		}
		key, err := validators.StringParam(r, "key")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value, err := svc.Get(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, value)
	}
}

func PutSetting(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, "settings")
			return
		}
		key, err := validators.StringParam(r, "key")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err := validators.ReadJSONBody(w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setting, err := svc.Put(r.Context(), key, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, setting)
	}
}
