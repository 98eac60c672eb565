package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	solddomain "github.com/smallbiznis/showroom/internal/sold/domain"
	"github.com/smallbiznis/showroom/internal/storage"
)

func (s *Server) CreateSale(c *gin.Context) {
	form := newMultipartForm(c)
	req := solddomain.CreateRequest{
		FullName:    form.value("full_name"),
		Mobile:      form.value("mobile"),
		Email:       form.value("email"),
		Birthday:    form.instant("birthday"),
		Anniversary: form.instant("anniversary"),
		Address:     form.value("address"),
		Tag:         form.value("tag"),
		Purity:      form.value("purity"),
		GoldWt:      form.value("gold_wt"),
		DiaWt:       form.value("dia_wt"),
		StnWt:       form.value("stn_wt"),
		Amount:      form.float("amount"),
		SalesStaff:  form.value("sales_staff"),
	}
	if err := form.err(); err != nil {
		AbortWithError(c, err)
		return
	}
	if identity, ok := identityFrom(c); ok {
		req.SalesStaff = identity.Username
	}

	upload, err := s.saveUpload(c, "soldupload", storage.AreaSold)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.SoldUpload = upload

	sale, err := s.soldSvc.Create(c.Request.Context(), req)
	if err != nil {
		s.discardUpload(upload)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Sold item saved successfully", "data": sale})
}

func (s *Server) ListSales(c *gin.Context) {
	var query struct {
		FullName   string `form:"full_name"`
		Mobile     string `form:"mobile"`
		Tag        string `form:"tag"`
		SalesStaff string `form:"sales_staff"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sales, err := s.soldSvc.List(c.Request.Context(), solddomain.ListFilter{
		FullName:   strings.TrimSpace(query.FullName),
		Mobile:     strings.TrimSpace(query.Mobile),
		Tag:        strings.TrimSpace(query.Tag),
		SalesStaff: strings.TrimSpace(query.SalesStaff),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, sales)
}

func (s *Server) GetSale(c *gin.Context) {
	sale, err := s.soldSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sale})
}

func (s *Server) UpdateSale(c *gin.Context) {
	form := newMultipartForm(c)
	req := solddomain.UpdateRequest{
		ID:          c.Param("id"),
		FullName:    form.optional("full_name"),
		Mobile:      form.optional("mobile"),
		Email:       form.optional("email"),
		Birthday:    form.instant("birthday"),
		Anniversary: form.instant("anniversary"),
		Address:     form.optional("address"),
		Tag:         form.optional("tag"),
		Purity:      form.optional("purity"),
		GoldWt:      form.optional("gold_wt"),
		DiaWt:       form.optional("dia_wt"),
		StnWt:       form.optional("stn_wt"),
		Amount:      form.float("amount"),
	}
	if err := form.err(); err != nil {
		AbortWithError(c, err)
		return
	}

	upload, err := s.saveUpload(c, "soldupload", storage.AreaSold)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.SoldUpload = optionalPath(upload)

	sale, err := s.soldSvc.Update(c.Request.Context(), req)
	if err != nil {
		s.discardUpload(upload)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sold item updated successfully", "data": sale})
}

func (s *Server) SaleReceipt(c *gin.Context) {
	id := c.Param("id")
	pdf, err := s.soldSvc.Receipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="receipt-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
