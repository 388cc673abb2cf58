package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	rentaldomain "github.com/pedalworks/rentora/internal/rental/domain"
)

func (s *Server) CreateRental(c *gin.Context) {
	var req rentaldomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rentalSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ChangeRentalStatus(c *gin.Context) {
	var req rentaldomain.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rentalSvc.ChangeStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRentals(c *gin.Context) {
	resp, err := s.rentalSvc.List(c.Request.Context(), rentaldomain.ListFilter{
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		BikeID:     strings.TrimSpace(c.Query("bike_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRental(c *gin.Context) {
	resp, err := s.rentalSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRentalHistory(c *gin.Context) {
	resp, err := s.rentalSvc.History(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRental(c *gin.Context) {
	if err := s.rentalSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
