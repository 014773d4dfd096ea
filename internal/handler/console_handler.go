package handler

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/internal/utils"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// ConsoleHandler exposes the vendor console over HTTP.
type ConsoleHandler struct {
	console *console.Console
}

// NewConsoleHandler constructs a ConsoleHandler.
func NewConsoleHandler(c *console.Console) *ConsoleHandler {
	return &ConsoleHandler{console: c}
}

type changeRoleRequest struct {
	Role vendoractivo.Role `json:"role"`
}

// ListVendors handles GET /v1/console/vendors[?page=n]
func (h *ConsoleHandler) ListVendors(c *gin.Context) {
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.Error(c, 400, utils.ErrInvalidPage.Error(), "Page must be a positive integer")
			return
		}
		moved, err := h.console.GoToPage(c.Request.Context(), n)
		if err != nil {
			respondError(c, err)
			return
		}
		if !moved {
			h.respondView(c, "Page out of range")
			return
		}
	}
	h.respondView(c, "Vendors retrieved")
}

// Refresh handles POST /v1/console/vendors/refresh
func (h *ConsoleHandler) Refresh(c *gin.Context) {
	if err := h.console.Refresh(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, "Vendors refreshed")
}

// ToggleFreeze handles PATCH /v1/console/vendors/:id/freeze
func (h *ConsoleHandler) ToggleFreeze(c *gin.Context) {
	if err := h.console.ToggleFreeze(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, "Vendor state changed")
}

// ChangeRole handles PATCH /v1/console/vendors/:id/role. Without a body the
// role is toggled between vendedor and usuario.
func (h *ConsoleHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.Error(c, 400, utils.ErrInvalidRequest.Error(), "Invalid request body")
		return
	}

	id := c.Param("id")
	var err error
	if req.Role == "" {
		err = h.console.ToggleRole(c.Request.Context(), id)
	} else {
		err = h.console.SetRole(c.Request.Context(), id, req.Role)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, "User role changed")
}

// DeleteVendor handles DELETE /v1/console/vendors/:id?confirm=true
func (h *ConsoleHandler) DeleteVendor(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	confirm := console.ConfirmFunc(func(context.Context, string) bool { return confirmed })

	if err := h.console.Delete(c.Request.Context(), c.Param("id"), confirm); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, "Vendor deleted")
}

func (h *ConsoleHandler) respondView(c *gin.Context, message string) {
	view := h.console.Snapshot()
	utils.SuccessWithPagination(c, 200, message, view, utils.Pagination{
		Page:       view.Pagination.Page,
		Limit:      view.Pagination.Limit,
		TotalItems: view.Pagination.Total,
		TotalPages: view.Pagination.Pages,
	})
}
