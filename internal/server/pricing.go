package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/pedalworks/rentora/internal/pricing/domain"
)

// QuotePrice computes a price for a dimension triple without persisting
// anything. The same calculation runs again inside rental creation,
// where its result is frozen into the rental's snapshot.
func (s *Server) QuotePrice(c *gin.Context) {
	var req pricingdomain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	calc, err := s.pricingSvc.Quote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": calc.ToSnapshotData()})
}
