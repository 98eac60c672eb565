package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type searchProductsRequest struct {
	JewelCode string `json:"jewel_code"`
}

func (s *Server) SearchProducts(c *gin.Context) {
	var req searchProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	products, err := s.productSvc.Search(c.Request.Context(), req.JewelCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}
