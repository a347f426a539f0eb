// Package catalogstore caches the current page of catalog results together
// with request status, mirroring what a browsing client keeps in memory. All
// reads go through Snapshot; all writes go through the request lifecycle.
package catalogstore

import (
	"context"
	"sync"

	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/pkg/db/models"
	apperrors "github.com/carlothq/carlot-backend/pkg/errors"
	"github.com/carlothq/carlot-backend/pkg/pagination"
)

// Status is the request lifecycle state of the store.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

// API is the catalog surface the store depends on. *Client satisfies it.
type API interface {
	List(ctx context.Context, q catalog.ListQuery) (catalog.ListResult, error)
	Create(ctx context.Context, input catalog.CreateInput) (models.Car, error)
	Update(ctx context.Context, id string, patch catalog.UpdateInput) (models.Car, error)
	Delete(ctx context.Context, id string) (DeleteResponse, error)
	BulkDelete(ctx context.Context, ids []string) (BulkDeleteResponse, error)
}

// Snapshot is an immutable view of the store, safe to hand to subscribers.
type Snapshot struct {
	Records      []models.Car
	Status       Status
	ErrorMessage string
	Pagination   pagination.Metadata
}

// Store holds the current page plus request status. Each List request gets a
// monotonically increasing token; a response arriving after a newer request
// has been issued is discarded, so the page always reflects the most recent
// user-intended query.
type Store struct {
	api API

	mu           sync.Mutex
	records      []models.Car
	status       Status
	errorMessage string
	pagination   pagination.Metadata
	lastQuery    catalog.ListQuery
	hasQuery     bool
	token        uint64

	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func New(api API) *Store {
	return &Store{
		api:         api,
		status:      StatusIdle,
		subscribers: map[int]func(Snapshot){},
	}
}

// Snapshot returns the current view.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers a callback invoked after every state change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Load runs a List query through the full lifecycle. Stale responses (a newer
// Load was issued while this one was in flight) are dropped silently.
func (s *Store) Load(ctx context.Context, q catalog.ListQuery) error {
	s.mu.Lock()
	s.token++
	token := s.token
	s.lastQuery = q
	s.hasQuery = true
	s.status = StatusLoading
	s.errorMessage = ""
	s.notifyLocked()
	s.mu.Unlock()

	result, err := s.api.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.token {
		// a newer request owns the page now
		return nil
	}
	if err != nil {
		s.failLocked(err)
		return err
	}
	s.records = result.Items
	s.pagination = result.Pagination
	s.status = StatusLoaded
	s.errorMessage = ""
	s.notifyLocked()
	return nil
}

// Refresh re-runs the last query, re-syncing the page after mutations drift
// it from the true server-side boundaries.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasQuery {
		s.mu.Unlock()
		return apperrors.New(apperrors.CodeValidation, "nothing to refresh: no query loaded yet")
	}
	q := s.lastQuery
	s.mu.Unlock()
	return s.Load(ctx, q)
}

// Create submits a new listing and appends it to the cached page on success.
func (s *Store) Create(ctx context.Context, input catalog.CreateInput) (models.Car, error) {
	s.beginMutation()

	created, err := s.api.Create(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(err)
		return models.Car{}, err
	}
	s.records = append(s.records, created)
	s.pagination = adjustTotal(s.pagination, +1)
	s.status = StatusLoaded
	s.notifyLocked()
	return created, nil
}

// Update patches a listing and replaces it in the cached page by id.
func (s *Store) Update(ctx context.Context, id string, patch catalog.UpdateInput) (models.Car, error) {
	s.beginMutation()

	updated, err := s.api.Update(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(err)
		return models.Car{}, err
	}
	for i := range s.records {
		if s.records[i].ID == updated.ID {
			s.records[i] = updated
			break
		}
	}
	s.status = StatusLoaded
	s.notifyLocked()
	return updated, nil
}

// Delete removes a listing and filters it out of the cached page.
func (s *Store) Delete(ctx context.Context, id string) (models.Car, error) {
	s.beginMutation()

	resp, err := s.api.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(err)
		return models.Car{}, err
	}
	s.records = removeByID(s.records, map[string]bool{id: true})
	s.pagination = adjustTotal(s.pagination, -1)
	s.status = StatusLoaded
	s.notifyLocked()
	return resp.Car, nil
}

// BulkDelete removes several listings. The total is decremented by the count
// the engine actually removed, not the count requested.
func (s *Store) BulkDelete(ctx context.Context, ids []string) ([]models.Car, error) {
	s.beginMutation()

	resp, err := s.api.BulkDelete(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failLocked(err)
		return nil, err
	}
	removedIDs := make(map[string]bool, len(resp.DeletedCars))
	for _, car := range resp.DeletedCars {
		removedIDs[car.ID] = true
	}
	s.records = removeByID(s.records, removedIDs)
	s.pagination = adjustTotal(s.pagination, -len(resp.DeletedCars))
	s.status = StatusLoaded
	s.notifyLocked()
	return resp.DeletedCars, nil
}

func (s *Store) beginMutation() {
	s.mu.Lock()
	s.status = StatusLoading
	s.errorMessage = ""
	s.notifyLocked()
	s.mu.Unlock()
}

// failLocked records an error while keeping the last successful page visible.
func (s *Store) failLocked(err error) {
	s.status = StatusError
	if typed := apperrors.As(err); typed != nil {
		s.errorMessage = typed.Message()
	} else {
		s.errorMessage = err.Error()
	}
	s.notifyLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Records:      append([]models.Car(nil), s.records...),
		Status:       s.status,
		ErrorMessage: s.errorMessage,
		Pagination:   s.pagination,
	}
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

func adjustTotal(meta pagination.Metadata, delta int) pagination.Metadata {
	meta.Total += delta
	if meta.Total < 0 {
		meta.Total = 0
	}
	if meta.Limit > 0 {
		meta.TotalPages = (meta.Total + meta.Limit - 1) / meta.Limit
		meta.HasNext = meta.Page*meta.Limit < meta.Total
	}
	meta.HasPrev = meta.Page > 1
	return meta
}

func removeByID(records []models.Car, ids map[string]bool) []models.Car {
	kept := make([]models.Car, 0, len(records))
	for _, car := range records {
		if !ids[car.ID] {
			kept = append(kept, car)
		}
	}
	return kept
}
