package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carlothq/carlot-backend/api/middleware"
	"github.com/carlothq/carlot-backend/api/responses"
	"github.com/carlothq/carlot-backend/internal/purchases"
	pkgerrors "github.com/carlothq/carlot-backend/pkg/errors"
	"github.com/carlothq/carlot-backend/pkg/logger"
)

// PurchaseCar answers POST /catalog/{carId}/purchase for authenticated buyers.
func PurchaseCar(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		carID := chi.URLParam(r, "carId")

		purchase, err := svc.Purchase(r.Context(), userID, carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

// ListPurchases answers GET /purchases with the caller's history.
func ListPurchases(svc purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		records, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"purchases": records})
	}
}
