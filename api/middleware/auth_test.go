package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgAuth "github.com/carlothq/carlot-backend/pkg/auth"
	"github.com/carlothq/carlot-backend/pkg/enums"
	pkgerrors "github.com/carlothq/carlot-backend/pkg/errors"
	"github.com/carlothq/carlot-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubTokenParser struct {
	claims *pkgAuth.Claims
	err    error
}

func (s *stubTokenParser) Parse(string) (*pkgAuth.Claims, error) {
	return s.claims, s.err
}

type stubSessionValidator struct {
	userID string
	err    error
	seen   []string
}

func (s *stubSessionValidator) Validate(_ context.Context, tokenID string) (string, error) {
	s.seen = append(s.seen, tokenID)
	return s.userID, s.err
}

func buyerClaims(userID uuid.UUID, tokenID string) *pkgAuth.Claims {
	return &pkgAuth.Claims{
		UserID: userID,
		Role:   enums.RoleBuyer,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: tokenID,
		},
	}
}

func TestAuthSeedsIdentity(t *testing.T) {
	userID := uuid.New()
	tokens := &stubTokenParser{claims: buyerClaims(userID, "jti-7")}
	sessions := &stubSessionValidator{userID: userID.String()}

	var gotUser uuid.UUID
	var gotRole enums.Role
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotToken = TokenIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	Auth(tokens, sessions, testLogger())(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, enums.RoleBuyer, gotRole)
	assert.Equal(t, "jti-7", gotToken)
	assert.Equal(t, []string{"jti-7"}, sessions.seen)
}

func TestAuthMissingHeader(t *testing.T) {
	tokens := &stubTokenParser{claims: buyerClaims(uuid.New(), "jti-1")}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	Auth(tokens, nil, testLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	tokens := &stubTokenParser{err: fmt.Errorf("signature mismatch")}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	Auth(tokens, nil, testLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRevokedSession(t *testing.T) {
	tokens := &stubTokenParser{claims: buyerClaims(uuid.New(), "jti-9")}
	sessions := &stubSessionValidator{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	Auth(tokens, sessions, testLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := RequireRole(enums.RoleAdmin, testLogger())

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/catalog", nil)
		ctx := WithIdentity(req.Context(), uuid.New(), enums.RoleAdmin, "jti-1")
		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("buyer forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/catalog", nil)
		ctx := WithIdentity(req.Context(), uuid.New(), enums.RoleBuyer, "jti-2")
		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/catalog", nil)
		rec := httptest.NewRecorder()
		guard(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
