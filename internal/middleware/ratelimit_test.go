package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/habit-quest/internal/config"
	"github.com/iliyamo/habit-quest/internal/utils"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/habits", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestCurrentUserID(t *testing.T) {
	cases := []struct {
		name string
		set  any
		want string
	}{
		{"unset", nil, "anon"},
		{"empty string", "", "anon"},
		{"string", "7", "7"},
		{"json number", float64(42), "42"},
		{"uint64", uint64(9), "9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext(t)
			if tc.set != nil {
				c.Set("user_id", tc.set)
			}
			assert.Equal(t, tc.want, currentUserID(c))
		})
	}
}

// Buckets must be keyed per authenticated user, which only works when
// the auth middleware has already stored the subject claim. This walks
// a request through JWTAuth the way the router chains it and checks
// the resulting bucket key.
func TestBuildRateKeySeesAuthenticatedUser(t *testing.T) {
	const secret = "test-secret"
	access, err := utils.NewAccessToken(secret, 42, 5)
	require.NoError(t, err)

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	var key string
	chain := JWTAuth(secret)(func(c echo.Context) error {
		key = buildRateKey(cfg, c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/habits", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	require.NoError(t, chain(echo.New().NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rl:user:42", key)
	assert.False(t, strings.Contains(key, "anon"))
}

func TestBuildRateKeyAnonymousWithoutAuth(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, newTestContext(t)))
}
