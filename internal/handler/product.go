package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/repository"
)

// ProductHandler exposes the seller-side catalog endpoints.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(p *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: p}
}

// ----- DTOs -----

type operationHourReq struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
type operationDayReq struct {
	Date  string             `json:"date"`
	Hours []operationHourReq `json:"hours"`
}
type ticketReq struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}
type createProductReq struct {
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Description   string            `json:"description"`
	ImageURL      *string           `json:"image_url"`
	Address       string            `json:"address"`
	DetailAddress *string           `json:"detail_address"`
	PhoneNumber   string            `json:"phone_number"`
	Homepage      *string           `json:"homepage"`
	CityCode      string            `json:"city_code"`
	Quantity      int               `json:"quantity"`
	Price         int               `json:"price"`
	OperationDays []operationDayReq `json:"operation_days"`
	Tickets       []ticketReq       `json:"tickets"`
}

type operationHourResp struct {
	ID        uint64 `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
type operationDayResp struct {
	ID    uint64              `json:"id"`
	Date  string              `json:"date"`
	Hours []operationHourResp `json:"hours"`
}
type ticketResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}
type productResp struct {
	ID            uint64             `json:"id"`
	SellerID      uint64             `json:"seller_id"`
	Name          string             `json:"name"`
	Type          string             `json:"type"`
	Description   string             `json:"description"`
	ImageURL      *string            `json:"image_url,omitempty"`
	Address       string             `json:"address"`
	DetailAddress *string            `json:"detail_address,omitempty"`
	PhoneNumber   string             `json:"phone_number"`
	Homepage      *string            `json:"homepage,omitempty"`
	CityCode      string             `json:"city_code"`
	Quantity      int                `json:"quantity"`
	Price         int                `json:"price"`
	OperationDays []operationDayResp `json:"operation_days"`
	Tickets       []ticketResp       `json:"tickets"`
	CreatedAt     time.Time          `json:"created_at"`
}

func toProductResp(p *model.Product) productResp {
	days := make([]operationDayResp, 0, len(p.OperationDays))
	for _, d := range p.OperationDays {
		hours := make([]operationHourResp, 0, len(d.Hours))
		for _, h := range d.Hours {
			hours = append(hours, operationHourResp{ID: h.ID, StartTime: h.StartTime, EndTime: h.EndTime})
		}
		days = append(days, operationDayResp{ID: d.ID, Date: d.Date, Hours: hours})
	}
	tickets := make([]ticketResp, 0, len(p.Tickets))
	for _, t := range p.Tickets {
		tickets = append(tickets, ticketResp{ID: t.ID, Name: t.Name, Price: t.Price})
	}
	return productResp{
		ID: p.ID, SellerID: p.MemberID, Name: p.Name, Type: p.Type,
		Description: p.Description, ImageURL: p.ImageURL, Address: p.Address,
		DetailAddress: p.DetailAddress, PhoneNumber: p.PhoneNumber,
		Homepage: p.Homepage, CityCode: p.CityCode, Quantity: p.Quantity,
		Price: p.Price, OperationDays: days, Tickets: tickets, CreatedAt: p.CreatedAt,
	}
}

// toModel converts the request, dropping duplicate days (same date) and
// duplicate tickets (same name and price).
func (req createProductReq) toModel(sellerID uint64) *model.Product {
	p := &model.Product{
		MemberID:      sellerID,
		Name:          strings.TrimSpace(req.Name),
		Type:          strings.TrimSpace(req.Type),
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		PhoneNumber:   req.PhoneNumber,
		Homepage:      req.Homepage,
		CityCode:      req.CityCode,
		Quantity:      req.Quantity,
		Price:         req.Price,
	}
	for _, d := range req.OperationDays {
		day := model.OperationDay{Date: strings.TrimSpace(d.Date)}
		dup := false
		for _, existing := range p.OperationDays {
			if existing.Equal(day) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		for _, h := range d.Hours {
			day.Hours = append(day.Hours, model.OperationHour{
				StartTime: h.StartTime,
				EndTime:   h.EndTime,
			})
		}
		p.OperationDays = append(p.OperationDays, day)
	}
	for _, t := range req.Tickets {
		ticket := model.Ticket{Name: strings.TrimSpace(t.Name), Price: t.Price}
		dup := false
		for _, existing := range p.Tickets {
			if existing.Equal(ticket) {
				dup = true
				break
			}
		}
		if !dup {
			p.Tickets = append(p.Tickets, ticket)
		}
	}
	return p
}

// Create registers a product together with its schedule and price tiers
// in one transaction.
func (h *ProductHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Quantity < 0 || req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity/price must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	p := req.toModel(uid)
	if err := h.Products.Create(ctx, p); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toProductResp(p))
}

// ListMine returns the caller's products.
func (h *ProductHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.Products.ListByOwner(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]productResp, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one of the caller's products with schedule and tickets.
func (h *ProductHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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
	if p.MemberID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// Delete removes a product and its children. Products with reservations
// cannot be deleted.
func (h *ProductHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Products.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
