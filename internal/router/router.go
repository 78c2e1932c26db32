package router

import (
	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/handler"
	"github.com/travellyhq/travelly-server/internal/middleware"
	"github.com/travellyhq/travelly-server/internal/model"
)

// RegisterRoutes registers routes that need no authentication. Currently
// only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints and the shared authenticated
// surface. Unauthenticated operations live under /v1/auth; /v1/me and
// the profile routes require a valid token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m *handler.MemberHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with a refresh token in the body or a bearer header,
	// so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTraveller, model.RoleSeller),
	)
	auth.GET("/me", a.Me)
	auth.GET("/members/me", m.Profile)
	auth.PATCH("/members/me/nickname", m.UpdateNickname)
	auth.PATCH("/members/me/password", m.UpdatePassword)
	auth.PATCH("/members/me/image", m.UpdateImage)
	auth.DELETE("/members/me/image", m.ResetImage)
}

// RegisterPublic registers the unauthenticated browse endpoints behind
// the response cache middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rv *handler.ReviewHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/products", p.ListProducts)
	g.GET("/products/:id", p.GetProduct)
	g.GET("/products/:id/reviews", rv.ListByProduct)
	g.GET("/reviews/:id", rv.Get)
}
