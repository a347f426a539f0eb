package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carlothq/carlot-backend/api/responses"
	"github.com/carlothq/carlot-backend/api/validators"
	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/pkg/logger"
	"github.com/carlothq/carlot-backend/pkg/pagination"
)

// CatalogList answers GET /catalog with a filtered, sorted page of listings.
func CatalogList(engine *catalog.Engine, defaults pagination.Params, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := catalog.ParseListQuery(r.URL.Query(), defaults)

		result, err := engine.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CatalogGet answers GET /catalog/{carId}.
func CatalogGet(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carID := chi.URLParam(r, "carId")

		car, err := engine.Get(r.Context(), carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, car)
	}
}

// CatalogCreate answers POST /catalog with the stored listing.
func CatalogCreate(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input catalog.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := engine.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// CatalogUpdate answers PUT /catalog/{carId} with the merged listing.
func CatalogUpdate(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carID := chi.URLParam(r, "carId")

		var patch catalog.UpdateInput
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := engine.Update(r.Context(), carID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// CatalogDelete answers DELETE /catalog/{carId} with the removed listing.
func CatalogDelete(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carID := chi.URLParam(r, "carId")

		removed, err := engine.Delete(r.Context(), carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"message": "Car deleted successfully",
			"car":     removed,
		})
	}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// CatalogBulkDelete answers POST /catalog/bulk-delete. Unknown ids are
// skipped; the response reports what was actually removed.
func CatalogBulkDelete(engine *catalog.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload bulkDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := engine.BulkDelete(r.Context(), payload.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"message":     fmt.Sprintf("%d cars deleted successfully", len(removed)),
			"deletedCars": removed,
		})
	}
}
