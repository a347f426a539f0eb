package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carlothq/carlot-backend/pkg/db/models"
	dbtypes "github.com/carlothq/carlot-backend/pkg/db/types"
	apperrors "github.com/carlothq/carlot-backend/pkg/errors"
	"github.com/carlothq/carlot-backend/pkg/pagination"
)

// Persistence is the optional write-through layer behind the engine. A nil
// Persistence leaves the engine purely in-memory.
type Persistence interface {
	LoadCars(ctx context.Context) ([]models.Car, error)
	SaveCar(ctx context.Context, car models.Car) error
	DeleteCars(ctx context.Context, ids []string) error
}

// CreateInput is the accepted shape for new listings. Engine-assigned fields
// (id, timestamps) are absent on purpose.
type CreateInput struct {
	Brand           string   `json:"brand" validate:"required"`
	Model           string   `json:"model" validate:"required"`
	Year            int      `json:"year" validate:"omitempty,gte=1900"`
	Price           float64  `json:"price" validate:"gte=0"`
	VehicleType     string   `json:"vehicleType"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=5"`
	Stock           int      `json:"stock" validate:"gte=0"`
	Color           string   `json:"color"`
	ImageURL        string   `json:"imageUrl"`
	Description     string   `json:"description"`
	Features        []string `json:"features"`
	Mileage         string   `json:"mileage"`
	Transmission    string   `json:"transmission"`
	FuelCapacity    *string  `json:"fuelCapacity"`
	BatteryCapacity *string  `json:"batteryCapacity"`
	SeatingCapacity int      `json:"seatingCapacity" validate:"omitempty,gte=1"`
	Available       *bool    `json:"available"`
}

// UpdateInput is a partial patch: nil fields are left untouched.
type UpdateInput struct {
	Brand           *string   `json:"brand"`
	Model           *string   `json:"model"`
	Year            *int      `json:"year" validate:"omitempty,gte=1900"`
	Price           *float64  `json:"price" validate:"omitempty,gte=0"`
	VehicleType     *string   `json:"vehicleType"`
	Rating          *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Stock           *int      `json:"stock" validate:"omitempty,gte=0"`
	Color           *string   `json:"color"`
	ImageURL        *string   `json:"imageUrl"`
	Description     *string   `json:"description"`
	Features        *[]string `json:"features"`
	Mileage         *string   `json:"mileage"`
	Transmission    *string   `json:"transmission"`
	FuelCapacity    *string   `json:"fuelCapacity"`
	BatteryCapacity *string   `json:"batteryCapacity"`
	SeatingCapacity *int      `json:"seatingCapacity" validate:"omitempty,gte=1"`
	Available       *bool     `json:"available"`
}

// ListResult is a single page plus its derived metadata.
type ListResult struct {
	Items      []models.Car        `json:"items"`
	Pagination pagination.Metadata `json:"pagination"`
}

// Engine owns the authoritative record set. All operations take a consistent
// snapshot under the lock; writes are atomic with respect to concurrent reads.
type Engine struct {
	mu   sync.RWMutex
	cars []models.Car

	repo      Persistence
	sizeGauge prometheus.Gauge
	now       func() time.Time
	newID     func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersistence attaches a write-through store. Mutations hit memory first,
// then the store; a store failure rolls the memory change back.
func WithPersistence(repo Persistence) Option {
	return func(e *Engine) { e.repo = repo }
}

// WithSizeGauge publishes the record count to a Prometheus gauge.
func WithSizeGauge(gauge prometheus.Gauge) Option {
	return func(e *Engine) { e.sizeGauge = gauge }
}

// WithClock overrides the timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDFunc overrides ID assignment, mainly for tests.
func WithIDFunc(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the in-memory set from the persistence layer. When the store
// is empty and seed is true, the seed fixture is written through instead.
func (e *Engine) Load(ctx context.Context, seed bool) error {
	if e.repo == nil {
		if seed {
			e.ReplaceAll(SeedCars(e.now()))
		}
		return nil
	}

	cars, err := e.repo.LoadCars(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "loading catalog")
	}
	if len(cars) == 0 && seed {
		cars = SeedCars(e.now())
		for _, car := range cars {
			if err := e.repo.SaveCar(ctx, car); err != nil {
				return apperrors.Wrap(apperrors.CodeDependency, err, "seeding catalog")
			}
		}
	}
	e.ReplaceAll(cars)
	return nil
}

// ReplaceAll swaps the whole record set, for bootstrap and tests.
func (e *Engine) ReplaceAll(cars []models.Car) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cars = append([]models.Car(nil), cars...)
	e.publishSize()
}

// Len reports the total record count, unfiltered.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cars)
}

// List answers a filter/sort/paginate query over a consistent snapshot.
func (e *Engine) List(_ context.Context, q ListQuery) (ListResult, error) {
	e.mu.RLock()
	matched := make([]models.Car, 0, len(e.cars))
	for _, car := range e.cars {
		if matchesQuery(car, q) {
			matched = append(matched, car)
		}
	}
	e.mu.RUnlock()

	sortCars(matched, q.SortBy, q.SortOrder)

	params := q.Page.Normalize()
	start, end := params.Window(len(matched))
	return ListResult{
		Items:      matched[start:end],
		Pagination: pagination.MetadataFor(len(matched), params),
	}, nil
}

// Get returns a single record by id.
func (e *Engine) Get(_ context.Context, id string) (models.Car, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, car := range e.cars {
		if car.ID == id {
			return car, nil
		}
	}
	return models.Car{}, notFound(id)
}

// Create assigns identity and timestamps, applies defaults, and appends the
// record.
func (e *Engine) Create(ctx context.Context, input CreateInput) (models.Car, error) {
	now := e.now().UTC()
	car := models.Car{
		ID:              e.newID(),
		Brand:           input.Brand,
		Model:           input.Model,
		Year:            input.Year,
		Price:           input.Price,
		VehicleType:     input.VehicleType,
		Rating:          input.Rating,
		Stock:           input.Stock,
		Color:           input.Color,
		ImageURL:        input.ImageURL,
		Description:     input.Description,
		Features:        dbtypes.StringList{},
		Mileage:         input.Mileage,
		Transmission:    input.Transmission,
		FuelCapacity:    input.FuelCapacity,
		BatteryCapacity: input.BatteryCapacity,
		SeatingCapacity: input.SeatingCapacity,
		Available:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.Features != nil {
		car.Features = append(dbtypes.StringList{}, input.Features...)
	}
	if input.Available != nil {
		car.Available = *input.Available
	}

	e.mu.Lock()
	e.cars = append(e.cars, car)
	e.publishSize()
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.SaveCar(ctx, car); err != nil {
			e.removeByID(car.ID)
			return models.Car{}, apperrors.Wrap(apperrors.CodeDependency, err, "persisting car")
		}
	}
	return car, nil
}

// Update merges the patch onto the existing record and refreshes updatedAt.
// Identity and createdAt are never touched.
func (e *Engine) Update(ctx context.Context, id string, patch UpdateInput) (models.Car, error) {
	e.mu.Lock()
	idx := e.indexOf(id)
	if idx < 0 {
		e.mu.Unlock()
		return models.Car{}, notFound(id)
	}

	previous := e.cars[idx]
	updated := applyPatch(previous, patch)
	updated.UpdatedAt = e.now().UTC()
	e.cars[idx] = updated
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.SaveCar(ctx, updated); err != nil {
			e.restore(id, previous)
			return models.Car{}, apperrors.Wrap(apperrors.CodeDependency, err, "persisting car update")
		}
	}
	return updated, nil
}

// Delete removes and returns the record.
func (e *Engine) Delete(ctx context.Context, id string) (models.Car, error) {
	e.mu.Lock()
	idx := e.indexOf(id)
	if idx < 0 {
		e.mu.Unlock()
		return models.Car{}, notFound(id)
	}
	removed := e.cars[idx]
	e.cars = append(e.cars[:idx], e.cars[idx+1:]...)
	e.publishSize()
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.DeleteCars(ctx, []string{id}); err != nil {
			e.restore(id, removed)
			return models.Car{}, apperrors.Wrap(apperrors.CodeDependency, err, "deleting car")
		}
	}
	return removed, nil
}

// BulkDelete removes every matching record in one atomic step. Unknown ids are
// skipped, not an error; the returned slice holds only what was removed.
func (e *Engine) BulkDelete(ctx context.Context, ids []string) ([]models.Car, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	e.mu.Lock()
	removed := make([]models.Car, 0, len(ids))
	kept := e.cars[:0]
	for _, car := range e.cars {
		if wanted[car.ID] {
			removed = append(removed, car)
		} else {
			kept = append(kept, car)
		}
	}
	e.cars = kept
	e.publishSize()
	e.mu.Unlock()

	if e.repo != nil && len(removed) > 0 {
		removedIDs := make([]string, len(removed))
		for i, car := range removed {
			removedIDs[i] = car.ID
		}
		if err := e.repo.DeleteCars(ctx, removedIDs); err != nil {
			e.mu.Lock()
			e.cars = append(e.cars, removed...)
			e.publishSize()
			e.mu.Unlock()
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "bulk deleting cars")
		}
	}
	return removed, nil
}

// DecrementStock takes one unit of stock for a purchase. A car with no stock
// left yields an out-of-stock error; hitting zero also flips availability.
func (e *Engine) DecrementStock(ctx context.Context, id string) (models.Car, error) {
	e.mu.Lock()
	idx := e.indexOf(id)
	if idx < 0 {
		e.mu.Unlock()
		return models.Car{}, notFound(id)
	}
	previous := e.cars[idx]
	if previous.Stock <= 0 {
		e.mu.Unlock()
		return models.Car{}, apperrors.New(apperrors.CodeOutOfStock, fmt.Sprintf("car %s is out of stock", id))
	}

	updated := previous
	updated.Stock--
	if updated.Stock == 0 {
		updated.Available = false
	}
	updated.UpdatedAt = e.now().UTC()
	e.cars[idx] = updated
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.SaveCar(ctx, updated); err != nil {
			e.restore(id, previous)
			return models.Car{}, apperrors.Wrap(apperrors.CodeDependency, err, "persisting stock change")
		}
	}
	return updated, nil
}

// IncrementStock returns one unit of stock, compensating a decrement whose
// follow-up work failed. A car that regains stock becomes available again.
func (e *Engine) IncrementStock(ctx context.Context, id string) (models.Car, error) {
	e.mu.Lock()
	idx := e.indexOf(id)
	if idx < 0 {
		e.mu.Unlock()
		return models.Car{}, notFound(id)
	}
	previous := e.cars[idx]

	updated := previous
	updated.Stock++
	updated.Available = true
	updated.UpdatedAt = e.now().UTC()
	e.cars[idx] = updated
	e.mu.Unlock()

	if e.repo != nil {
		if err := e.repo.SaveCar(ctx, updated); err != nil {
			e.restore(id, previous)
			return models.Car{}, apperrors.Wrap(apperrors.CodeDependency, err, "persisting stock change")
		}
	}
	return updated, nil
}

func (e *Engine) indexOf(id string) int {
	for i, car := range e.cars {
		if car.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) removeByID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx := e.indexOf(id); idx >= 0 {
		e.cars = append(e.cars[:idx], e.cars[idx+1:]...)
		e.publishSize()
	}
}

func (e *Engine) restore(id string, car models.Car) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx := e.indexOf(id); idx >= 0 {
		e.cars[idx] = car
		return
	}
	e.cars = append(e.cars, car)
	e.publishSize()
}

func (e *Engine) publishSize() {
	if e.sizeGauge != nil {
		e.sizeGauge.Set(float64(len(e.cars)))
	}
}

func notFound(id string) error {
	return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("car %s not found", id))
}

func matchesQuery(car models.Car, q ListQuery) bool {
	if len(q.Brands) > 0 && !matchesAnyBrand(car.Brand, q.Brands) {
		return false
	}
	if len(q.VehicleTypes) > 0 && !containsExact(q.VehicleTypes, car.VehicleType) {
		return false
	}
	// the price filter only applies when both bounds are supplied
	if q.MinPrice != nil && q.MaxPrice != nil {
		if car.Price < *q.MinPrice || car.Price > *q.MaxPrice {
			return false
		}
	}
	if q.MinRating != nil && car.Rating < *q.MinRating {
		return false
	}
	if q.Search != "" && !matchesSearch(car, q.Search) {
		return false
	}
	return true
}

func matchesAnyBrand(brand string, tokens []string) bool {
	lowered := strings.ToLower(brand)
	for _, token := range tokens {
		if strings.Contains(lowered, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

func containsExact(tokens []string, value string) bool {
	for _, token := range tokens {
		if token == value {
			return true
		}
	}
	return false
}

func matchesSearch(car models.Car, term string) bool {
	lowered := strings.ToLower(term)
	return strings.Contains(strings.ToLower(car.Brand), lowered) ||
		strings.Contains(strings.ToLower(car.Model), lowered) ||
		strings.Contains(strings.ToLower(car.Description), lowered)
}

// sortCars orders in place. String fields compare case-insensitively; an
// unknown sort key leaves the incoming order intact. Both defaults apply
// independently: key falls back to creation time, direction to descending.
func sortCars(cars []models.Car, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if sortOrder == "" {
		sortOrder = SortDesc
	}

	less := lessFunc(sortBy)
	if less == nil {
		return
	}
	if sortOrder == SortDesc {
		inner := less
		less = func(a, b models.Car) bool { return inner(b, a) }
	}
	sort.SliceStable(cars, func(i, j int) bool { return less(cars[i], cars[j]) })
}

func lessFunc(sortBy string) func(a, b models.Car) bool {
	switch sortBy {
	case "brand":
		return func(a, b models.Car) bool { return lessString(a.Brand, b.Brand) }
	case "model":
		return func(a, b models.Car) bool { return lessString(a.Model, b.Model) }
	case "vehicleType":
		return func(a, b models.Car) bool { return lessString(a.VehicleType, b.VehicleType) }
	case "color":
		return func(a, b models.Car) bool { return lessString(a.Color, b.Color) }
	case "year":
		return func(a, b models.Car) bool { return a.Year < b.Year }
	case "price":
		return func(a, b models.Car) bool { return a.Price < b.Price }
	case "rating":
		return func(a, b models.Car) bool { return a.Rating < b.Rating }
	case "stock":
		return func(a, b models.Car) bool { return a.Stock < b.Stock }
	case "seatingCapacity":
		return func(a, b models.Car) bool { return a.SeatingCapacity < b.SeatingCapacity }
	case "createdAt":
		return func(a, b models.Car) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updatedAt":
		return func(a, b models.Car) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return nil
	}
}

func lessString(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func applyPatch(car models.Car, patch UpdateInput) models.Car {
	if patch.Brand != nil {
		car.Brand = *patch.Brand
	}
	if patch.Model != nil {
		car.Model = *patch.Model
	}
	if patch.Year != nil {
		car.Year = *patch.Year
	}
	if patch.Price != nil {
		car.Price = *patch.Price
	}
	if patch.VehicleType != nil {
		car.VehicleType = *patch.VehicleType
	}
	if patch.Rating != nil {
		car.Rating = *patch.Rating
	}
	if patch.Stock != nil {
		car.Stock = *patch.Stock
	}
	if patch.Color != nil {
		car.Color = *patch.Color
	}
	if patch.ImageURL != nil {
		car.ImageURL = *patch.ImageURL
	}
	if patch.Description != nil {
		car.Description = *patch.Description
	}
	if patch.Features != nil {
		car.Features = append(dbtypes.StringList{}, (*patch.Features)...)
	}
	if patch.Mileage != nil {
		car.Mileage = *patch.Mileage
	}
	if patch.Transmission != nil {
		car.Transmission = *patch.Transmission
	}
	if patch.FuelCapacity != nil {
		car.FuelCapacity = patch.FuelCapacity
	}
	if patch.BatteryCapacity != nil {
		car.BatteryCapacity = patch.BatteryCapacity
	}
	if patch.SeatingCapacity != nil {
		car.SeatingCapacity = *patch.SeatingCapacity
	}
	if patch.Available != nil {
		car.Available = *patch.Available
	}
	return car
}
