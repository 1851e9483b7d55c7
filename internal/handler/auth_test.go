package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONContext(t *testing.T, method, target, body string, userID any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestChangeEmailValidation(t *testing.T) {
	h := &AuthHandler{}

	cases := []struct {
		name   string
		userID any
		body   string
		want   int
	}{
		{"no auth", nil, `{"password":"secret","new_email":"a@b.com"}`, http.StatusUnauthorized},
		{"missing email", float64(1), `{"password":"secret"}`, http.StatusBadRequest},
		{"email without at sign", float64(1), `{"password":"secret","new_email":"not-an-email"}`, http.StatusBadRequest},
		{"missing password", float64(1), `{"new_email":"a@b.com"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPut, "/v1/account/email", tc.body, tc.userID)
			require.NoError(t, h.ChangeEmail(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestChangePasswordValidation(t *testing.T) {
	h := &AuthHandler{}

	cases := []struct {
		name   string
		userID any
		body   string
		want   int
	}{
		{"no auth", nil, `{"current_password":"secret","new_password":"longenough"}`, http.StatusUnauthorized},
		{"missing current", float64(1), `{"new_password":"longenough"}`, http.StatusBadRequest},
		{"new too short", float64(1), `{"current_password":"secret","new_password":"abc"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPut, "/v1/account/password", tc.body, tc.userID)
			require.NoError(t, h.ChangePassword(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
