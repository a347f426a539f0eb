package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PurchaseStatusCompleted = "completed"
)

// Purchase records a completed buy, including a snapshot of the car at the
// moment of sale so the record survives later edits or deletions.
type Purchase struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	CarID         string          `gorm:"column:car_id;not null" json:"carId"`
	CarBrand      string          `gorm:"column:car_brand;not null" json:"carBrand"`
	CarModel      string          `gorm:"column:car_model;not null" json:"carModel"`
	CarYear       int             `gorm:"column:car_year" json:"carYear"`
	CarImageURL   string          `gorm:"column:car_image_url" json:"carImageUrl"`
	PurchasePrice decimal.Decimal `gorm:"column:purchase_price;type:numeric(12,2);not null" json:"purchasePrice"`
	Status        string          `gorm:"column:status;not null;default:completed" json:"status"`
	PurchaseDate  time.Time       `gorm:"column:purchase_date;not null" json:"purchaseDate"`
}

func (Purchase) TableName() string {
	return "purchases"
}
