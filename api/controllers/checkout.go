package controllers

import (
	"net/http"

	"github.com/educateagirl/storefront-api/api/responses"
	"github.com/educateagirl/storefront-api/pkg/logger"
)

const checkoutMessage = "Payment processed successfully"

type checkoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Checkout always reports success. No payment provider is called.
func Checkout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logg != nil {
			logg.Info(r.Context(), "checkout.accepted")
		}
		responses.WriteSuccess(w, checkoutResponse{Success: true, Message: checkoutMessage})
	}
}
