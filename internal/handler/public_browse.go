package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints. These
// routes sit behind the Redis response cache, so they only expose data
// safe to share between users.
type PublicHandler struct {
	Products *repository.ProductRepo
}

func NewPublicHandler(p *repository.ProductRepo) *PublicHandler {
	return &PublicHandler{Products: p}
}

// ListProducts returns the full catalog.
func (h *PublicHandler) ListProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.Products.ListAll(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]productResp, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// GetProduct returns one product with its schedule and ticket tiers.
func (h *PublicHandler) GetProduct(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}
