package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travellyhq/travelly-server/internal/config"
	"github.com/travellyhq/travelly-server/internal/model"
	"github.com/travellyhq/travelly-server/internal/repository"
	"github.com/travellyhq/travelly-server/internal/utils"
)

// MemberHandler exposes the profile endpoints for the authenticated
// member.
type MemberHandler struct {
	Cfg     config.Config
	Members *repository.MemberRepo
}

func NewMemberHandler(cfg config.Config, m *repository.MemberRepo) *MemberHandler {
	return &MemberHandler{Cfg: cfg, Members: m}
}

type profileResp struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Point    int    `json:"point"`
	ImageURL string `json:"image_url"`
	Role     string `json:"role"`
}

type nicknameReq struct {
	Nickname string `json:"nickname"`
}
type passwordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
type imageReq struct {
	ImageURL string `json:"image_url"`
}

// Profile returns the caller's account, including the point balance.
func (h *MemberHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Members.GetByID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: m.ID, Email: m.Email, Nickname: m.Nickname,
		Point: m.Point, ImageURL: m.ImageURL, Role: m.Role,
	})
}

// UpdateNickname replaces the display name.
func (h *MemberHandler) UpdateNickname(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req nicknameReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Nickname) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nickname required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Members.UpdateNickname(ctx, uid, strings.TrimSpace(req.Nickname)); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdatePassword verifies the current password before storing the new
// hash.
func (h *MemberHandler) UpdatePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req passwordReq
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_password/new_password required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Members.GetByID(ctx, uid)
	if err != nil {
		return writeErr(c, err)
	}
	if !utils.VerifyPassword(m.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Members.UpdatePassword(ctx, uid, hash); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateImage stores a new profile image URL.
func (h *MemberHandler) UpdateImage(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req imageReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image_url required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Members.UpdateImageURL(ctx, uid, strings.TrimSpace(req.ImageURL)); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetImage puts the stock profile image back.
func (h *MemberHandler) ResetImage(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Members.UpdateImageURL(ctx, uid, model.DefaultProfileImageURL); err != nil {
		return writeErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
