package router

import (
	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/handler"
	"github.com/travellyhq/travelly-server/internal/middleware"
	"github.com/travellyhq/travelly-server/internal/model"
)

// RegisterTraveller registers traveller-scoped endpoints under /v1.
// Travellers check availability, book products, manage their own
// reservations and write reviews.
func RegisterTraveller(e *echo.Echo, r *handler.ReservationHandler, rv *handler.ReviewHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTraveller),
	)
	g.GET("/products/:id/availability", r.CheckAvailability)
	g.POST("/products/:id/reservations", r.Create)
	g.GET("/my-reservations", r.ListMine)

	g.POST("/products/:id/reviews", rv.Create)
	g.PUT("/reviews/:id", rv.Update)
	g.DELETE("/reviews/:id", rv.Delete)

	// Reservation detail and cancel are shared with sellers; the engine
	// verifies the caller is the buyer or the product owner.
	shared := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTraveller, model.RoleSeller),
	)
	shared.GET("/reservations/:id", r.Get)
	shared.DELETE("/reservations/:id", r.Cancel)
	shared.POST("/reviews/:id/comments", rv.AddComment)
}
