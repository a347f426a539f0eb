// Package purchases implements the buy flow: taking a unit of stock from the
// catalog and recording the sale with a price snapshot, so the record stays
// accurate if the listing is later edited or removed.
package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/carlothq/carlot-backend/pkg/db/models"
	pkgerrors "github.com/carlothq/carlot-backend/pkg/errors"
)

// Service defines the behavior needed by the purchases controller.
type Service interface {
	Purchase(ctx context.Context, userID uuid.UUID, carID string) (*models.Purchase, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type stockTaker interface {
	DecrementStock(ctx context.Context, id string) (models.Car, error)
	IncrementStock(ctx context.Context, id string) (models.Car, error)
}

type purchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type service struct {
	engine  stockTaker
	repo    purchaseRepository
	counter prometheus.Counter
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build a purchases service.
type ServiceParams struct {
	Engine    stockTaker
	Repo      purchaseRepository
	Completed prometheus.Counter
	Now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Engine == nil {
		return nil, fmt.Errorf("catalog engine is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("purchase repository is required")
	}
	svc := &service{
		engine:  params.Engine,
		repo:    params.Repo,
		counter: params.Completed,
		now:     params.Now,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Purchase takes one unit of stock and records the sale. The price is
// snapshotted as a decimal at the moment of purchase.
func (s *service) Purchase(ctx context.Context, userID uuid.UUID, carID string) (*models.Purchase, error) {
	car, err := s.engine.DecrementStock(ctx, carID)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		ID:            uuid.New(),
		UserID:        userID,
		CarID:         car.ID,
		CarBrand:      car.Brand,
		CarModel:      car.Model,
		CarYear:       car.Year,
		CarImageURL:   car.ImageURL,
		PurchasePrice: decimal.NewFromFloat(car.Price).Round(2),
		Status:        models.PurchaseStatusCompleted,
		PurchaseDate:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, purchase); err != nil {
		// Give the unit back so a failed record does not leak stock.
		if _, restoreErr := s.engine.IncrementStock(ctx, carID); restoreErr != nil {
			err = multierr.Append(err, restoreErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording purchase")
	}
	if s.counter != nil {
		s.counter.Inc()
	}
	return purchase, nil
}

// ListForUser returns the user's purchase history, newest first.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing purchases")
	}
	return records, nil
}
