package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pharmacy-clinic/config"
	"pharmacy-clinic/internal/domain/entity"
	"pharmacy-clinic/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenStore struct {
	valid map[string]bool
	err   error
}

func (s *fakeTokenStore) Save(_ context.Context, _ uuid.UUID, _ jwt.TokenType, tokenID string, _ time.Duration) error {
	s.valid[tokenID] = true
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, _ uuid.UUID, _ jwt.TokenType, tokenID string) (bool, error) {
	return s.valid[tokenID], s.err
}

func (s *fakeTokenStore) Revoke(_ context.Context, _ uuid.UUID, _ jwt.TokenType, tokenID string) error {
	delete(s.valid, tokenID)
	return nil
}

func (s *fakeTokenStore) RevokeAll(context.Context, uuid.UUID) error {
	s.valid = map[string]bool{}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setup(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *fakeTokenStore) {
	t.Helper()
	svc := jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	store := &fakeTokenStore{valid: map[string]bool{}}
	return NewAuthMiddleware(svc, store, quietLogger()), svc, store
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := GetRoleFromContext(r.Context())
		dni, _ := GetDNIFromContext(r.Context())
		w.Write([]byte(role + ":" + dni))
	})
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m, _, _ := setup(t)
	rec := httptest.NewRecorder()

	m.Authenticate(echoIdentity()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	m, svc, store := setup(t)
	token, tokenID, err := svc.GenerateAccessToken(jwt.Subject{UserID: uuid.New(), DNI: "42", Role: entity.RolePharmacist})
	require.NoError(t, err)
	store.valid[tokenID] = true

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(echoIdentity()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "farmaceutico:42", rec.Body.String())
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	m, svc, _ := setup(t)
	token, _, err := svc.GenerateAccessToken(jwt.Subject{UserID: uuid.New(), Role: entity.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(echoIdentity()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	m, svc, store := setup(t)
	token, tokenID, err := svc.GenerateRefreshToken(jwt.Subject{UserID: uuid.New(), Role: entity.RoleAdmin})
	require.NoError(t, err)
	store.valid[tokenID] = true

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(echoIdentity()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_StoreError(t *testing.T) {
	m, svc, store := setup(t)
	store.err = errors.New("redis down")
	token, _, err := svc.GenerateAccessToken(jwt.Subject{UserID: uuid.New(), Role: entity.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(echoIdentity()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(entity.RoleAdmin, entity.RoleDoctor)(echoIdentity())

	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", entity.RoleAdmin, http.StatusOK},
		{"doctor allowed", entity.RoleDoctor, http.StatusOK},
		{"patient forbidden", entity.RolePatient, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), uuid.New(), "1", tt.role, "t"))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCORSMiddleware(nil).Handle(echoIdentity()).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Empty(t, rec.Body.String())
}

func TestCORSAllowList(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://clinic.example"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://clinic.example")
	rec := httptest.NewRecorder()
	m.Handle(echoIdentity()).ServeHTTP(rec, req)
	assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	m.Handle(echoIdentity()).ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoggingMiddleware_RecordsUser(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	m, svc, store := setup(t)
	userID := uuid.New()
	token, tokenID, err := svc.GenerateAccessToken(jwt.Subject{UserID: userID, Role: entity.RoleAdmin})
	require.NoError(t, err)
	store.valid[tokenID] = true

	chain := NewLoggingMiddleware(log).Handle(m.Authenticate(RequireRole(entity.RolePatient)(echoIdentity())))
	req := httptest.NewRequest(http.MethodGet, "/notifications/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, buf.String(), userID.String())
	assert.Contains(t, buf.String(), `"status":403`)
	assert.Contains(t, buf.String(), "request rejected")
}
