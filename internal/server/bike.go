package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
)

func (s *Server) CreateBike(c *gin.Context) {
	var req bikedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bikeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateBike(c *gin.Context) {
	var req bikedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bikeSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ChangeBikeStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bikeSvc.ChangeStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBikes(c *gin.Context) {
	resp, err := s.bikeSvc.List(c.Request.Context(), bikedomain.ListFilter{
		CategoryID: strings.TrimSpace(c.Query("category_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBike(c *gin.Context) {
	resp, err := s.bikeSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBike(c *gin.Context) {
	if err := s.bikeSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
