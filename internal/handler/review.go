package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/repository"
)

// ReviewHandler exposes review and comment endpoints.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Products *repository.ProductRepo
}

func NewReviewHandler(r *repository.ReviewRepo, p *repository.ProductRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Products: p}
}

type reviewReq struct {
	Content   string   `json:"content"`
	Rating    int      `json:"rating"`
	ImageURLs []string `json:"image_urls"`
}

type commentReq struct {
	Content string `json:"content"`
}

type reviewResp struct {
	ID        uint64    `json:"id"`
	MemberID  uint64    `json:"member_id"`
	ProductID uint64    `json:"product_id"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	ImageURLs []string  `json:"image_urls"`
	CreatedAt time.Time `json:"created_at"`
}

type commentResp struct {
	ID        uint64    `json:"id"`
	ReviewID  uint64    `json:"review_id"`
	MemberID  uint64    `json:"member_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResp(r *model.Review) reviewResp {
	urls := r.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return reviewResp{
		ID: r.ID, MemberID: r.MemberID, ProductID: r.ProductID,
		Content: r.Content, Rating: r.Rating, ImageURLs: urls,
		CreatedAt: r.CreatedAt,
	}
}

func toCommentResp(cm model.Comment) commentResp {
	return commentResp{
		ID: cm.ID, ReviewID: cm.ReviewID, MemberID: cm.MemberID,
		Content: cm.Content, CreatedAt: cm.CreatedAt,
	}
}

// Create attaches a review to a product.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..5"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	// The product must exist before the review insert fires, so a bad id
	// surfaces as 404 rather than a foreign key error.
	if _, err := h.Products.GetByID(ctx, productID); err != nil {
		return writeErr(c, err)
	}

	rev := &model.Review{
		MemberID:  uid,
		ProductID: productID,
		Content:   strings.TrimSpace(req.Content),
		Rating:    req.Rating,
		ImageURLs: req.ImageURLs,
	}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResp(rev))
}

// Get returns a review together with its comments.
func (h *ReviewHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	comments, err := h.Reviews.ListComments(ctx, id)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, toCommentResp(cm))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"review":   toReviewResp(rev),
		"comments": out,
	})
}

// ListByProduct returns a page of reviews for a product. Default page
// size is 20, capped at 100.
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	reviews, err := h.Reviews.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]reviewResp, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResp(&reviews[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Update replaces the content, rating and images of the caller's review.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..5"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Reviews.Update(ctx, id, uid, strings.TrimSpace(req.Content), req.Rating, req.ImageURLs); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the caller's review and its comments.
func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id, uid); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddComment attaches a comment to a review.
func (h *ReviewHandler) AddComment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reviewID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Reviews.GetByID(ctx, reviewID); err != nil {
		return writeErr(c, err)
	}
	cm := &model.Comment{
		ReviewID: reviewID,
		MemberID: uid,
		Content:  strings.TrimSpace(req.Content),
	}
	if err := h.Reviews.CreateComment(ctx, cm); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, toCommentResp(*cm))
}
