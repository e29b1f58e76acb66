package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-inventory-crm/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens map[string]model.Identity

func (s staticTokens) ValidateToken(token string) (*model.Identity, error) {
	id, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &id, nil
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	tokens := staticTokens{"good": {ID: 1, Username: "boss1", DisplayName: "boss1"}}
	app.Get("/me", RequireAuth(tokens), func(c *fiber.Ctx) error {
		id, ok := CurrentIdentity(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(id.Username)
	})
	app.Get("/ws", RequireAuth(tokens), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newAuthApp()
	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic good", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"ok", "/me", "Bearer good", http.StatusOK},
		{"lowercase scheme", "/me", "bearer good", http.StatusOK},
		{"query token only on ws", "/me?token=good", "", http.StatusUnauthorized},
		{"ws query token", "/ws?token=good", "", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireAuthPropagatesIdentityToUserContext(t *testing.T) {
	app := fiber.New()
	tokens := staticTokens{"good": {ID: 2, Username: "boss2", DisplayName: "Boss Two"}}
	app.Get("/whoami", RequireAuth(tokens), func(c *fiber.Ctx) error {
		id := model.IdentityFrom(c.UserContext())
		if id == nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(id.DisplayName)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "Boss Two", string(body[:n]))
}

type memoryCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func (m *memoryCounter) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if m.err != nil {
		return 0, 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hits == nil {
		m.hits = map[string]int64{}
	}
	m.hits[key]++
	return m.hits[key], window, nil
}

func newLimitedApp(counter Counter, rule RateLimitRule) *fiber.App {
	app := fiber.New()
	app.Post("/login", RateLimit(counter, rule), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	return app
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	counter := &memoryCounter{}
	app := newLimitedApp(counter, RateLimitRule{Prefix: "login", Window: time.Minute, MaxRequests: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			assert.Equal(t, "60", resp.Header.Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Len(t, counter.hits, 1)
}

func TestRateLimitPassThrough(t *testing.T) {
	for name, app := range map[string]*fiber.App{
		"nil counter":    newLimitedApp(nil, RateLimitRule{Window: time.Minute, MaxRequests: 1}),
		"disabled rule":  newLimitedApp(&memoryCounter{}, RateLimitRule{}),
		"counter failed": newLimitedApp(&memoryCounter{err: errors.New("redis down")}, RateLimitRule{Window: time.Minute, MaxRequests: 1}),
	} {
		for i := 0; i < 3; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, name)
		}
	}
}
