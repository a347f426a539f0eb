package models

import (
	"time"

	dbtypes "github.com/carlothq/carlot-backend/pkg/db/types"
)

// Car is the canonical vehicle listing, shared between the query engine,
// the durable store, and the wire format.
type Car struct {
	ID              string             `gorm:"column:id;primaryKey" json:"id"`
	Brand           string             `gorm:"column:brand;not null" json:"brand"`
	Model           string             `gorm:"column:model;not null" json:"model"`
	Year            int                `gorm:"column:year" json:"year"`
	Price           float64            `gorm:"column:price;not null" json:"price"`
	VehicleType     string             `gorm:"column:vehicle_type" json:"vehicleType"`
	Rating          float64            `gorm:"column:rating" json:"rating"`
	Stock           int                `gorm:"column:stock;not null;default:0" json:"stock"`
	Color           string             `gorm:"column:color" json:"color"`
	ImageURL        string             `gorm:"column:image_url" json:"imageUrl"`
	Description     string             `gorm:"column:description" json:"description"`
	Features        dbtypes.StringList `gorm:"column:features;type:text" json:"features"`
	Mileage         string             `gorm:"column:mileage" json:"mileage"`
	Transmission    string             `gorm:"column:transmission" json:"transmission"`
	FuelCapacity    *string            `gorm:"column:fuel_capacity" json:"fuelCapacity,omitempty"`
	BatteryCapacity *string            `gorm:"column:battery_capacity" json:"batteryCapacity,omitempty"`
	SeatingCapacity int                `gorm:"column:seating_capacity" json:"seatingCapacity"`
	Available       bool               `gorm:"column:available;not null;default:true" json:"available"`
	CreatedAt       time.Time          `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time          `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName keeps the table name stable across dialects.
func (Car) TableName() string {
	return "cars"
}
