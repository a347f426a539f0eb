package catalogstore_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlothq/carlot-backend/api/routes"
	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/internal/catalogstore"
	"github.com/carlothq/carlot-backend/internal/filters"
	pkgAuth "github.com/carlothq/carlot-backend/pkg/auth"
	"github.com/carlothq/carlot-backend/pkg/config"
	"github.com/carlothq/carlot-backend/pkg/enums"
	"github.com/carlothq/carlot-backend/pkg/logger"
	"github.com/carlothq/carlot-backend/pkg/pagination"
	"github.com/carlothq/carlot-backend/pkg/transport"
)

type staticTokens map[string]*pkgAuth.Claims

func (s staticTokens) Parse(token string) (*pkgAuth.Claims, error) {
	claims, ok := s[token]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	return claims, nil
}

type allowAllSessions struct{}

func (allowAllSessions) Validate(_ context.Context, tokenID string) (string, error) {
	return tokenID, nil
}

// newInProcessClient serves the real router through an in-process transport,
// so the client and store run against actual routing and middleware.
func newInProcessClient(t *testing.T) (*catalogstore.Client, *catalog.Engine) {
	t.Helper()

	engine := catalog.NewEngine()
	engine.ReplaceAll(catalog.SeedCars(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)))

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Catalog.DefaultLimit = 10

	router := routes.NewRouter(routes.Deps{
		Config: cfg,
		Logger: logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard}),
		Engine: engine,
		TokenParser: staticTokens{
			"admin-token": {
				UserID:           uuid.New(),
				Role:             enums.RoleAdmin,
				RegisteredClaims: jwt.RegisteredClaims{ID: "jti-admin"},
			},
		},
		Sessions: allowAllSessions{},
	})

	return catalogstore.NewClient("http://carlot.local", transport.NewLocalClient(router)), engine
}

func TestStoreAgainstRealRouter(t *testing.T) {
	client, engine := newInProcessClient(t)
	store := catalogstore.New(client.WithToken("admin-token"))
	ctx := context.Background()

	state := filters.NewState(filters.PriceRange{Min: 0, Max: 100000}).
		ToggleBrand("BMW").
		ToggleBrand("Audi")
	query := state.Query()
	query.Page = pagination.Params{Page: 1, Limit: 10}

	require.NoError(t, store.Load(ctx, query))

	snap := store.Snapshot()
	require.Equal(t, catalogstore.StatusLoaded, snap.Status)
	require.NotEmpty(t, snap.Records)
	for _, car := range snap.Records {
		assert.Contains(t, []string{"BMW", "Audi"}, car.Brand)
	}

	created, err := store.Create(ctx, catalog.CreateInput{
		Brand:       "Audi",
		Model:       "Q4 e-tron",
		Price:       52000,
		VehicleType: "Electric",
		Stock:       2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	fetched, err := engine.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q4 e-tron", fetched.Model)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	_, err = engine.Get(ctx, created.ID)
	require.Error(t, err)
}

func TestStoreSurfacesAuthFailures(t *testing.T) {
	client, engine := newInProcessClient(t)
	store := catalogstore.New(client) // no token
	ctx := context.Background()

	require.NoError(t, store.Load(ctx, catalog.ListQuery{Page: pagination.Params{Page: 1, Limit: 10}}))

	before := store.Snapshot()
	require.Equal(t, catalogstore.StatusLoaded, before.Status)

	_, err := store.BulkDelete(ctx, []string{"seed-01"})
	require.Error(t, err)

	after := store.Snapshot()
	assert.Equal(t, catalogstore.StatusError, after.Status)
	assert.Equal(t, "missing credentials", after.ErrorMessage)
	assert.Equal(t, before.Pagination.Total, after.Pagination.Total)
	assert.Equal(t, 12, engine.Len())
}
