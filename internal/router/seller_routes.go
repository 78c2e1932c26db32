package router

import (
	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/handler"
	"github.com/travellyhq/travelly-server/internal/middleware"
	"github.com/travellyhq/travelly-server/internal/model"
)

// RegisterSeller registers seller-scoped endpoints under /v1: catalog
// management, booking lists per product, the reservation summary and the
// confirm/reject decisions.
func RegisterSeller(e *echo.Echo, p *handler.ProductHandler, r *handler.SellerReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSeller),
	)
	g.POST("/products", p.Create)
	g.GET("/seller/products", p.ListMine)
	g.GET("/seller/products/:id", p.Get)
	g.DELETE("/products/:id", p.Delete)

	g.GET("/products/:id/reservations", r.ListByProduct)
	g.GET("/seller/reservations/summary", r.Summary)
	g.POST("/reservations/:id/confirm", r.Confirm)
	g.POST("/reservations/:id/reject", r.Reject)
	g.PATCH("/reservations/:id/status", r.UpdateStatus)
}
