// Package router wires the HTTP surface: which handler answers which
// route and which middleware guards it.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-quest/internal/handler"
	"github.com/iliyamo/habit-quest/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login and
// the refresh variants live under /v1/auth and need no token; /v1/me
// sits behind JWTAuth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout authenticates itself from either the bearer token or the
	// refresh token in the body, so it stays outside the middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/account/email", a.ChangeEmail)
	auth.PUT("/account/password", a.ChangePassword)
}
