package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
)

func (s *Server) BulkUpsertRates(c *gin.Context) {
	var req ratedomain.BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rateSvc.BulkUpsert(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRates(c *gin.Context) {
	resp, err := s.rateSvc.List(c.Request.Context(), ratedomain.ListRequest{
		CategoryID:     strings.TrimSpace(c.Query("category_id")),
		PricingClassID: strings.TrimSpace(c.Query("pricing_class_id")),
		DurationID:     strings.TrimSpace(c.Query("duration_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRate(c *gin.Context) {
	if err := s.rateSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
