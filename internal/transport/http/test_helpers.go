package http

import (
	"context"
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/Mcdonalid/Lychee/internal/auth"
	"github.com/Mcdonalid/Lychee/internal/config"
	"github.com/Mcdonalid/Lychee/internal/log"
	"github.com/Mcdonalid/Lychee/internal/service/contact"
	"github.com/Mcdonalid/Lychee/internal/settings"
	"github.com/Mcdonalid/Lychee/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema and
// default settings applied.
func createTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test store: %v", err)
	}

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st *sqlite.SQLiteStore, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

// testServer bundles the pieces handler tests need.
type testServer struct {
	server      *stdhttp.Server
	store       *sqlite.SQLiteStore
	settings    *settings.Service
	authService *auth.Service
}

// newTestServer builds a full HTTP server over an in-memory store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st, "test-secret")
	settingsService := settings.New(st)
	contactService := contact.New(st, settingsService, auth.NewPolicy())

	cfg := config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		JWTSecret:         "test-secret",
	}

	server := NewServer(contactService, authService, &cfg, log.Nop())

	return &testServer{
		server:      server,
		store:       st,
		settings:    settingsService,
		authService: authService,
	}
}

// tokenForNewUser creates a user and returns a bearer token for it.
func (ts *testServer) tokenForNewUser(t *testing.T, username string, mayAdminister bool) string {
	t.Helper()

	user, err := ts.authService.CreateUser(context.Background(), username, "password123", mayAdminister)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	token, err := ts.authService.TokenFor(user)
	if err != nil {
		t.Fatalf("failed to issue token for %s: %v", username, err)
	}
	return token
}
