package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/debnit/MsmeBazaar-sub003/internal/valuation"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
)

// Valuator is the handler's view of the valuation orchestrator.
type Valuator interface {
	Valuate(ctx context.Context, fin *valuation.BusinessFinancials) (*valuation.ValuationResult, error)
}

// ValuationHandler serves the business valuation endpoint.
type ValuationHandler struct {
	orchestrator Valuator
}

// NewValuationHandler constructs a ValuationHandler.
func NewValuationHandler(orchestrator Valuator) *ValuationHandler {
	return &ValuationHandler{orchestrator: orchestrator}
}

// Valuate handles POST /api/v1/valuations.
func (h *ValuationHandler) Valuate(c *gin.Context) {
	var fin valuation.BusinessFinancials
	if err := c.ShouldBindJSON(&fin); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid valuation request body"))
		return
	}
	result, err := h.orchestrator.Valuate(c.Request.Context(), &fin)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
