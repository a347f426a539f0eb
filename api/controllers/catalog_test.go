package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/pkg/db/models"
	"github.com/carlothq/carlot-backend/pkg/logger"
	"github.com/carlothq/carlot-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func seededEngine() *catalog.Engine {
	engine := catalog.NewEngine()
	engine.ReplaceAll(catalog.SeedCars(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)))
	return engine
}

func withCarID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("carId", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func TestCatalogListPagination(t *testing.T) {
	engine := seededEngine()
	defaults := pagination.Params{Page: 1, Limit: 10}

	req := httptest.NewRequest(http.MethodGet, "/catalog?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	CatalogList(engine, defaults, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result catalog.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 12, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNext)
	assert.True(t, result.Pagination.HasPrev)
}

func TestCatalogListFilters(t *testing.T) {
	engine := seededEngine()
	defaults := pagination.Params{Page: 1, Limit: 10}

	req := httptest.NewRequest(http.MethodGet, "/catalog?brand=BMW,Audi&minRating=4", nil)
	rec := httptest.NewRecorder()
	CatalogList(engine, defaults, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result catalog.ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.Items)
	for _, car := range result.Items {
		assert.Contains(t, []string{"BMW", "Audi"}, car.Brand)
		assert.GreaterOrEqual(t, car.Rating, 4.0)
	}
}

func TestCatalogGet(t *testing.T) {
	engine := seededEngine()

	req := withCarID(httptest.NewRequest(http.MethodGet, "/catalog/seed-01", nil), "seed-01")
	rec := httptest.NewRecorder()
	CatalogGet(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var car models.Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &car))
	assert.Equal(t, "seed-01", car.ID)
}

func TestCatalogGetNotFound(t *testing.T) {
	engine := seededEngine()

	req := withCarID(httptest.NewRequest(http.MethodGet, "/catalog/ghost", nil), "ghost")
	rec := httptest.NewRecorder()
	CatalogGet(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "car ghost not found", body["error"])
}

func TestCatalogCreate(t *testing.T) {
	engine := seededEngine()

	payload := `{"brand":"Kia","model":"EV6","price":48000,"vehicleType":"Electric","stock":3}`
	req := httptest.NewRequest(http.MethodPost, "/catalog", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CatalogCreate(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var car models.Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &car))
	assert.NotEmpty(t, car.ID)
	assert.True(t, car.Available)
	assert.Equal(t, 13, engine.Len())
}

func TestCatalogCreateValidation(t *testing.T) {
	engine := seededEngine()

	payload := `{"model":"No Brand","price":-5}`
	req := httptest.NewRequest(http.MethodPost, "/catalog", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CatalogCreate(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "brand is required")
	assert.Equal(t, 12, engine.Len())
}

func TestCatalogUpdate(t *testing.T) {
	engine := seededEngine()

	payload := `{"price":39999}`
	req := withCarID(httptest.NewRequest(http.MethodPut, "/catalog/seed-01", strings.NewReader(payload)), "seed-01")
	rec := httptest.NewRecorder()
	CatalogUpdate(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var car models.Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &car))
	assert.Equal(t, 39999.0, car.Price)
	assert.Equal(t, "BMW", car.Brand)
}

func TestCatalogUpdateNotFound(t *testing.T) {
	engine := seededEngine()

	req := withCarID(httptest.NewRequest(http.MethodPut, "/catalog/ghost", strings.NewReader(`{}`)), "ghost")
	rec := httptest.NewRecorder()
	CatalogUpdate(engine, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogDelete(t *testing.T) {
	engine := seededEngine()

	req := withCarID(httptest.NewRequest(http.MethodDelete, "/catalog/seed-02", nil), "seed-02")
	rec := httptest.NewRecorder()
	CatalogDelete(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string     `json:"message"`
		Car     models.Car `json:"car"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Car deleted successfully", body.Message)
	assert.Equal(t, "seed-02", body.Car.ID)
	assert.Equal(t, 11, engine.Len())
}

func TestCatalogBulkDelete(t *testing.T) {
	engine := seededEngine()

	payload := `{"ids":["seed-01","seed-03","ghost"]}`
	req := httptest.NewRequest(http.MethodPost, "/catalog/bulk-delete", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	CatalogBulkDelete(engine, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message     string       `json:"message"`
		DeletedCars []models.Car `json:"deletedCars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2 cars deleted successfully", body.Message)
	assert.Len(t, body.DeletedCars, 2)
	assert.Equal(t, 10, engine.Len())
}

func TestCatalogBulkDeleteRequiresIDs(t *testing.T) {
	engine := seededEngine()

	req := httptest.NewRequest(http.MethodPost, "/catalog/bulk-delete", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	CatalogBulkDelete(engine, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 12, engine.Len())
}
