package controllers

import (
	"net/http"

	"github.com/educateagirl/storefront-api/api/responses"
	"github.com/educateagirl/storefront-api/api/validators"
	"github.com/educateagirl/storefront-api/internal/wishlist"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

// ListWishlist returns the session's saved products wrapped as {message, data}.
func ListWishlist(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			writeUnavailable(ctx, logg, w, "wishlist")
			return
		}
		sessionID, err := validators.StringParam(r, "session_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}
		items, err := svc.List(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, orEmpty(items))
	}
}

// AddWishlistItem saves a product for a session. Saving the same pair twice
// still answers 201, without a data member.
func AddWishlistItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			writeUnavailable(ctx, logg, w, "wishlist")
			return
		}
		var input wishlist.Input
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithSessionID(ctx, input.SessionID)
		}
		entry, err := svc.Add(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if entry == nil {
			responses.WriteMessage(w, http.StatusCreated, nil)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, entry)
	}
}

func DeleteWishlistItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(r.Context(), logg, w, "wishlist")
			return
		}
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeDeleted(w)
	}
}
