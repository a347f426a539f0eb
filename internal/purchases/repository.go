package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carlothq/carlot-backend/pkg/db/models"
)

// Repository persists purchase records.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a purchase record.
func (r *Repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// ListByUser returns a user's purchases, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	var records []models.Purchase
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchase_date desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
