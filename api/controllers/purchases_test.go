package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlothq/carlot-backend/api/middleware"
	"github.com/carlothq/carlot-backend/pkg/db/models"
	"github.com/carlothq/carlot-backend/pkg/enums"
	pkgerrors "github.com/carlothq/carlot-backend/pkg/errors"
)

type stubPurchaseService struct {
	purchaseFn func(ctx context.Context, userID uuid.UUID, carID string) (*models.Purchase, error)
	listFn     func(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

func (s *stubPurchaseService) Purchase(ctx context.Context, userID uuid.UUID, carID string) (*models.Purchase, error) {
	return s.purchaseFn(ctx, userID, carID)
}

func (s *stubPurchaseService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	return s.listFn(ctx, userID)
}

func TestPurchaseCar(t *testing.T) {
	userID := uuid.New()
	svc := &stubPurchaseService{
		purchaseFn: func(_ context.Context, gotUser uuid.UUID, carID string) (*models.Purchase, error) {
			require.Equal(t, userID, gotUser)
			require.Equal(t, "seed-01", carID)
			return &models.Purchase{
				ID:            uuid.New(),
				UserID:        gotUser,
				CarID:         carID,
				PurchasePrice: decimal.NewFromFloat(45990.46),
				Status:        models.PurchaseStatusCompleted,
			}, nil
		},
	}

	req := withCarID(httptest.NewRequest(http.MethodPost, "/catalog/seed-01/purchase", nil), "seed-01")
	ctx := middleware.WithIdentity(req.Context(), userID, enums.RoleBuyer, "jti-1")
	rec := httptest.NewRecorder()
	PurchaseCar(svc, testLogger()).ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusCreated, rec.Code)

	var purchase models.Purchase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &purchase))
	assert.Equal(t, "seed-01", purchase.CarID)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)
}

func TestPurchaseCarOutOfStock(t *testing.T) {
	svc := &stubPurchaseService{
		purchaseFn: func(context.Context, uuid.UUID, string) (*models.Purchase, error) {
			return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "car seed-01 is out of stock")
		},
	}

	req := withCarID(httptest.NewRequest(http.MethodPost, "/catalog/seed-01/purchase", nil), "seed-01")
	ctx := middleware.WithIdentity(req.Context(), uuid.New(), enums.RoleBuyer, "jti-1")
	rec := httptest.NewRecorder()
	PurchaseCar(svc, testLogger()).ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "car seed-01 is out of stock", body["error"])
}

func TestPurchaseCarRequiresIdentity(t *testing.T) {
	svc := &stubPurchaseService{
		purchaseFn: func(context.Context, uuid.UUID, string) (*models.Purchase, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	req := withCarID(httptest.NewRequest(http.MethodPost, "/catalog/seed-01/purchase", nil), "seed-01")
	rec := httptest.NewRecorder()
	PurchaseCar(svc, testLogger()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPurchases(t *testing.T) {
	userID := uuid.New()
	svc := &stubPurchaseService{
		listFn: func(_ context.Context, gotUser uuid.UUID) ([]models.Purchase, error) {
			require.Equal(t, userID, gotUser)
			return []models.Purchase{
				{ID: uuid.New(), UserID: gotUser, CarID: "seed-02"},
				{ID: uuid.New(), UserID: gotUser, CarID: "seed-01"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/purchases", nil)
	ctx := middleware.WithIdentity(req.Context(), userID, enums.RoleBuyer, "jti-1")
	rec := httptest.NewRecorder()
	ListPurchases(svc, testLogger()).ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Purchases []models.Purchase `json:"purchases"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Purchases, 2)
	assert.Equal(t, "seed-02", body.Purchases[0].CarID)
}
