package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	maintenancedomain "github.com/pedalworks/rentora/internal/maintenance/domain"
)

func (s *Server) OpenMaintenance(c *gin.Context) {
	var req maintenancedomain.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.maintenanceSvc.Open(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) StartMaintenance(c *gin.Context) {
	resp, err := s.maintenanceSvc.Start(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CompleteMaintenance(c *gin.Context) {
	var req maintenancedomain.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.maintenanceSvc.Complete(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMaintenance(c *gin.Context) {
	resp, err := s.maintenanceSvc.List(c.Request.Context(), maintenancedomain.ListFilter{
		BikeID: strings.TrimSpace(c.Query("bike_id")),
		Status: strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMaintenance(c *gin.Context) {
	resp, err := s.maintenanceSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
