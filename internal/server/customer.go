package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/showroom/internal/customer/domain"
	"github.com/smallbiznis/showroom/internal/storage"
)

func (s *Server) CreateCustomer(c *gin.Context) {
	form := newMultipartForm(c)
	req := customerdomain.CreateRequest{
		Name:             form.value("name"),
		Mobile:           form.value("mobile"),
		ProductName:      form.value("productName"),
		Price:            form.float("price"),
		NextFollowUpDate: form.instant("nextFollowUpDate"),
		Status:           form.value("status"),
		Seriousness:      form.value("seriousness"),
		Conversation:     form.value("conversation"),
		Salesperson:      form.value("salesperson"),
	}
	if err := form.err(); err != nil {
		AbortWithError(c, err)
		return
	}

	image, err := s.saveUpload(c, "productImage", storage.AreaCustomers)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.ProductImage = image

	customer, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		s.discardUpload(image)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Customer saved successfully", "data": customer})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		Name        string `form:"name"`
		Mobile      string `form:"mobile"`
		Status      string `form:"status"`
		Seriousness string `form:"seriousness"`
		Salesperson string `form:"salesperson"`
		ProductName string `form:"productName"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customers, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListFilter{
		Name:        strings.TrimSpace(query.Name),
		Mobile:      strings.TrimSpace(query.Mobile),
		Status:      strings.TrimSpace(query.Status),
		Seriousness: strings.TrimSpace(query.Seriousness),
		Salesperson: strings.TrimSpace(query.Salesperson),
		ProductName: strings.TrimSpace(query.ProductName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, customers)
}

func (s *Server) GetCustomer(c *gin.Context) {
	customer, err := s.customerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	form := newMultipartForm(c)
	req := customerdomain.UpdateRequest{
		ID:               c.Param("id"),
		Name:             form.optional("name"),
		Mobile:           form.optional("mobile"),
		ProductName:      form.optional("productName"),
		Price:            form.float("price"),
		NextFollowUpDate: form.instant("nextFollowUpDate"),
		Status:           form.optional("status"),
		Seriousness:      form.optional("seriousness"),
		Conversation:     form.optional("conversation"),
		Salesperson:      form.optional("salesperson"),
	}
	if err := form.err(); err != nil {
		AbortWithError(c, err)
		return
	}

	image, err := s.saveUpload(c, "productImage", storage.AreaCustomers)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.ProductImage = optionalPath(image)

	customer, err := s.customerSvc.Update(c.Request.Context(), req)
	if err != nil {
		s.discardUpload(image)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "data": customer})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	customer, err := s.customerSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully", "data": customer})
}

func (s *Server) SearchCustomers(c *gin.Context) {
	customers, err := s.customerSvc.SearchByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, customers)
}

func (s *Server) FollowUpsToday(c *gin.Context) {
	customers, err := s.customerSvc.FollowUpsToday(c.Request.Context(), strings.TrimSpace(c.Query("salesperson")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}

func (s *Server) FollowUpsMissed(c *gin.Context) {
	customers, err := s.customerSvc.FollowUpsMissed(c.Request.Context(), strings.TrimSpace(c.Query("salesperson")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}
