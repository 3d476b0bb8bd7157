package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WorkbookChecker reports whether the contract workbook is reachable.
type WorkbookChecker interface {
	Check(ctx context.Context) error
}

type HealthHandler struct {
	checker WorkbookChecker
}

func NewHealthHandler(checker WorkbookChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health reports ok when the workbook can be reached, degraded otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	status, workbook, code := "ok", "ok", http.StatusOK
	if err := h.checker.Check(c.Request.Context()); err != nil {
		c.Error(err)
		status, workbook, code = "degraded", "unavailable", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"workbook":  workbook,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
