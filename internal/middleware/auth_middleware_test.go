package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/model"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuth resolves a fixed set of tokens.
type stubAuth struct {
	service.AuthService
	sessions map[string]policy.Identity
}

func (s *stubAuth) Resolve(token string) (policy.Identity, error) {
	id, ok := s.sessions[token]
	if !ok {
		return policy.Identity{}, service.ErrSessionReplaced
	}
	return id, nil
}

func (s *stubAuth) SessionTTL() time.Duration { return time.Hour }

func newApp() *fiber.App {
	auth := &stubAuth{sessions: map[string]policy.Identity{
		"cashier-token": {UserID: uuid.New(), Username: "kasir", Roles: []string{model.RoleCashier}},
		"manager-token": {UserID: uuid.New(), Username: "boss", Roles: []string{model.RoleManager}},
	}}
	app := fiber.New()
	api := app.Group("/api", RequireAuth(auth, "pos_session"))
	api.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(Identity(c))
	})
	api.Delete("/orders/:id", RequirePermission(policy.TransactionVoid), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func TestRequireAuth(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, 401},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "pos_session", Value: "cashier-token"}) }, 200},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer manager-token") }, 200},
		{"bad scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic manager-token") }, 401},
		{"replaced session", func(r *http.Request) { r.Header.Set("Authorization", "Bearer stale") }, 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			tt.setup(req)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRequireAuth_ReplacedSessionMessage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, service.ErrSessionReplaced.Message, errorBody(t, resp))
}

func TestRequirePermission(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodDelete, "/api/orders/1", nil)
	req.Header.Set("Authorization", "Bearer cashier-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
	assert.Contains(t, errorBody(t, resp), "Forbidden")

	req = httptest.NewRequest(http.MethodDelete, "/api/orders/1", nil)
	req.Header.Set("Authorization", "Bearer manager-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
