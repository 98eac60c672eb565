package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	footfalldomain "github.com/smallbiznis/showroom/internal/footfall/domain"
)

type saveFootfallRequest struct {
	Username  string                      `json:"username"`
	FootEntry []footfalldomain.EntryInput `json:"foot_entry"`
}

func (s *Server) SaveFootfall(c *gin.Context) {
	var req saveFootfallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, footfalldomain.ErrInvalidTimestamp) {
			AbortWithError(c, err)
			return
		}
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.footfallSvc.SaveEntries(c.Request.Context(), footfalldomain.SaveEntriesRequest{
		UserID:   c.Param("userId"),
		Username: strings.TrimSpace(req.Username),
		Entries:  req.FootEntry,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Footfall saved successfully", "data": record})
}

func (s *Server) ListFootfall(c *gin.Context) {
	var query struct {
		UserID   string `form:"user_id"`
		Username string `form:"username"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	records, err := s.footfallSvc.List(c.Request.Context(), footfalldomain.ListFilter{
		UserID:   strings.TrimSpace(query.UserID),
		Username: strings.TrimSpace(query.Username),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

type updateFootfallEntryRequest struct {
	Footfall   int `json:"footfall"`
	Conversion int `json:"conversion"`
}

func (s *Server) UpdateFootfallEntry(c *gin.Context) {
	var req updateFootfallEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.footfallSvc.UpdateEntry(c.Request.Context(), footfalldomain.UpdateEntryRequest{
		UserID:     c.Param("userId"),
		EntryID:    c.Param("entryId"),
		Footfall:   req.Footfall,
		Conversion: req.Conversion,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry updated successfully", "data": record})
}

func (s *Server) DeleteFootfallEntry(c *gin.Context) {
	record, err := s.footfallSvc.DeleteEntry(c.Request.Context(), footfalldomain.DeleteEntryRequest{
		UserID:  c.Param("userId"),
		EntryID: c.Param("entryId"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully", "data": record})
}
