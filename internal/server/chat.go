package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) GetChat(c *gin.Context) {
	chat, err := s.chatSvc.Get(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": chat})
}

func (s *Server) AddChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	chat, err := s.chatSvc.AddMessage(c.Request.Context(), c.Param("customerId"), req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": chat})
}

func (s *Server) UpdateChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	chat, err := s.chatSvc.UpdateMessage(c.Request.Context(), c.Param("customerId"), c.Param("messageId"), req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": chat})
}

func (s *Server) DeleteChatMessage(c *gin.Context) {
	chat, err := s.chatSvc.DeleteMessage(c.Request.Context(), c.Param("customerId"), c.Param("messageId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully", "data": chat})
}
