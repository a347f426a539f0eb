package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/carlothq/carlot-backend/pkg/db/models"
)

// Repository persists the record set behind the engine. The engine remains
// the source of truth for queries; the repository only mirrors mutations and
// reloads the set at startup.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadCars reads the full record set, oldest first.
func (r *Repository) LoadCars(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&cars).Error; err != nil {
		return nil, fmt.Errorf("loading cars: %w", err)
	}
	return cars, nil
}

// SaveCar upserts a single record by primary key.
func (r *Repository) SaveCar(ctx context.Context, car models.Car) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&car).Error
	if err != nil {
		return fmt.Errorf("saving car %s: %w", car.ID, err)
	}
	return nil
}

// DeleteCars removes the given ids. Missing rows are not an error.
func (r *Repository) DeleteCars(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Car{}).Error; err != nil {
		return fmt.Errorf("deleting cars: %w", err)
	}
	return nil
}
