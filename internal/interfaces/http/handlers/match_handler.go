package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/debnit/MsmeBazaar-sub003/internal/matching"
	"github.com/debnit/MsmeBazaar-sub003/pkg/errors"
	"github.com/debnit/MsmeBazaar-sub003/pkg/types/common"
)

// Matcher is the handler's view of the matchmaking engine.
type Matcher interface {
	FindMatchesForListing(ctx context.Context, listingID common.ID, limit int) ([]*matching.Result, error)
	FindMatchesForBuyer(ctx context.Context, buyerID common.ID, limit int) ([]*matching.Result, error)
}

// MatchHandler serves the match-finding endpoints.
type MatchHandler struct {
	engine Matcher
}

// NewMatchHandler constructs a MatchHandler.
func NewMatchHandler(engine Matcher) *MatchHandler {
	return &MatchHandler{engine: engine}
}

// matchResponse wraps ranked results with their count for API consumers.
type matchResponse struct {
	Matches []*matching.Result `json:"matches"`
	Count   int                `json:"count"`
}

// ForListing handles POST /api/v1/matches/listing/:id.
func (h *MatchHandler) ForListing(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.engine.FindMatchesForListing(c.Request.Context(), common.ID(c.Param("id")), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, matchResponse{Matches: results, Count: len(results)})
}

// ForBuyer handles POST /api/v1/matches/buyer/:id.
func (h *MatchHandler) ForBuyer(c *gin.Context) {
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	results, err := h.engine.FindMatchesForBuyer(c.Request.Context(), common.ID(c.Param("id")), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, matchResponse{Matches: results, Count: len(results)})
}

// parseLimit reads the optional limit query parameter.  Zero means "use the
// engine default".
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.InvalidParam("limit must be a non-negative integer")
	}
	return limit, nil
}
