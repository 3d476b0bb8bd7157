package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/AnTengye/carrierdiscounts/middleware"
	"github.com/AnTengye/carrierdiscounts/model"
	"github.com/AnTengye/carrierdiscounts/pkg/logger"
	"github.com/AnTengye/carrierdiscounts/service"
	"github.com/gin-gonic/gin"
)

type DiscountHandler struct {
	service *service.DiscountService
}

func NewDiscountHandler(svc *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{service: svc}
}

// DiscountRequest is the body of a contract query. Optional fields fall back
// to the configured defaults.
type DiscountRequest struct {
	Carrier     string   `json:"carrier" binding:"required"`
	AnnualSpend *float64 `json:"annual_spend" binding:"required,gt=0"`
	TopN        *int     `json:"top_n_service_types" binding:"omitempty,min=1"`
	Tolerance   *float64 `json:"tolerance" binding:"omitempty,gte=0,lte=1"`
}

func (r DiscountRequest) toQuery(defaultTopN int, defaultTolerance float64) model.ContractQuery {
	q := model.ContractQuery{
		Carrier:   r.Carrier,
		TopN:      defaultTopN,
		Tolerance: defaultTolerance,
	}
	if r.AnnualSpend != nil {
		q.AnnualSpend = *r.AnnualSpend
	}
	if r.TopN != nil {
		q.TopN = *r.TopN
	}
	if r.Tolerance != nil {
		q.Tolerance = *r.Tolerance
	}
	return q
}

// Query summarises discount rates per service level for a carrier and spend band
func (h *DiscountHandler) Query(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": middleware.ValidationMessages(err),
		})
		return
	}

	q := req.toQuery(h.service.Defaults())
	ctx := logger.WithCarrier(c.Request.Context(), q.Carrier)
	c.Request = c.Request.WithContext(ctx)

	summaries, err := h.service.Query(ctx, q)
	if err != nil {
		h.writeError(c, q, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *DiscountHandler) writeError(c *gin.Context, q model.ContractQuery, err error) {
	var sheetErr *service.SheetError

	switch {
	case errors.Is(err, service.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoContracts):
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("No contracts found for %s with annual spend around %s.", q.Carrier, q.SpendLabel()),
		})
	case errors.Is(err, service.ErrMalformedSheet) && errors.As(err, &sheetErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Contract sheet is malformed",
			"detail": sheetErr.Err.Error(),
			"sheet":  sheetErr.Sheet,
		})
	default:
		workbookUnavailable(c, err)
	}
}

// workbookUnavailable hides the underlying error from the client; the
// request ID ties the response to the logged cause.
func workbookUnavailable(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Contract workbook is unavailable",
		"request_id": middleware.GetRequestID(c),
	})
}

// Sheets lists workbook sheets with the spend parsed from their names
func (h *DiscountHandler) Sheets(c *gin.Context) {
	carrier := c.Query("carrier")

	sheets, err := h.service.Sheets(c.Request.Context(), carrier)
	if err != nil {
		workbookUnavailable(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sheets": sheets})
}
