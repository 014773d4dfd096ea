package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/vendor_console/internal/models"
	"github.com/GTDGit/vendor_console/internal/utils"
)

// AuditReader reads the persisted audit trail.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
	ListByRecord(ctx context.Context, recordID string) ([]models.AuditLog, error)
}

// AuditHandler serves the operator action history.
type AuditHandler struct {
	audit AuditReader
}

func NewAuditHandler(audit AuditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAudit handles GET /v1/console/audit[?limit=n][&recordId=id]
func (h *AuditHandler) ListAudit(c *gin.Context) {
	var (
		logs []models.AuditLog
		err  error
	)
	if recordID := c.Query("recordId"); recordID != "" {
		logs, err = h.audit.ListByRecord(c.Request.Context(), recordID)
	} else {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		logs, err = h.audit.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to read audit log")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to read audit log")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	utils.Success(c, 200, "Audit log retrieved", logs)
}
