package controllers

import (
	"context"
	"net/http"

	"github.com/educateagirl/storefront-api/api/responses"
	pkgerrors "github.com/educateagirl/storefront-api/pkg/errors"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

func writeUnavailable(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, name string) {
	responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

// writeDeleted answers every delete with {"message":"success"}, whether or not a row matched.
func writeDeleted(w http.ResponseWriter) {
	responses.WriteMessage(w, http.StatusOK, nil)
}

// orEmpty keeps list responses as [] rather than null.
func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
