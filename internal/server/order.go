package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/showroom/internal/order/domain"
	"github.com/smallbiznis/showroom/internal/storage"
)

// CreateOrder stores the image before the order; the order service removes it
// again when the order cannot be saved.
func (s *Server) CreateOrder(c *gin.Context) {
	form := newMultipartForm(c)
	req := orderdomain.CreateRequest{
		Party:          form.value("party"),
		Customer:       form.value("customer"),
		Karigari:       form.value("karigari"),
		DeliveryDate:   form.instant("deliveryDate"),
		Quantity:       form.integer("quantity"),
		Salesperson:    form.value("salesperson"),
		GoldWeight:     form.value("goldWeight"),
		GatiOrderNo:    form.value("gatiOrderNo"),
		ItemCategory:   form.value("itemCategory"),
		Purity:         form.value("purity"),
		GoldColor:      form.value("goldColor"),
		DiamondDetails: form.value("diamondDetails"),
		StoneDetails:   form.value("stoneDetails"),
		ProductCode:    form.value("productCode"),
		Size:           form.value("size"),
		Remarks:        form.value("remarks"),
		Status:         form.value("status"),
	}
	if err := form.err(); err != nil {
		AbortWithError(c, err)
		return
	}

	image, err := s.saveUpload(c, "productImage", storage.AreaOrders)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.ImageProduct = image

	order, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "data": order})
}

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		ID          string `form:"id"`
		OrderNumber string `form:"orderNumber"`
		Customer    string `form:"customer"`
		Party       string `form:"party"`
		Salesperson string `form:"salesperson"`
		Status      string `form:"status"`
		Karigari    string `form:"karigari"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orders, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListRequest{
		ID:          strings.TrimSpace(query.ID),
		OrderNumber: strings.TrimSpace(query.OrderNumber),
		Customer:    strings.TrimSpace(query.Customer),
		Party:       strings.TrimSpace(query.Party),
		Salesperson: strings.TrimSpace(query.Salesperson),
		Status:      strings.TrimSpace(query.Status),
		Karigari:    strings.TrimSpace(query.Karigari),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "data": order})
}

// EditOrder ignores orderNumber, id and timestamp fields in the body.
func (s *Server) EditOrder(c *gin.Context) {
	form := newMultipartForm(c)
	req := orderdomain.EditRequest{
		ID:             c.Param("id"),
		Party:          form.optional("party"),
		Customer:       form.optional("customer"),
		Karigari:       form.optional("karigari"),
		DeliveryDate:   form.instant("deliveryDate"),
		Quantity:       form.integer("quantity"),
		Salesperson:    form.optional("salesperson"),
		GoldWeight:     form.optional("goldWeight"),
		GatiOrderNo:    form.optional("gatiOrderNo"),
		ItemCategory:   form.optional("itemCategory"),
		Purity:         form.optional("purity"),
		GoldColor:      form.optional("goldColor"),
		DiamondDetails: form.optional("diamondDetails"),
		StoneDetails:   form.optional("stoneDetails"),
		ProductCode:    form.optional("productCode"),
		Size:           form.optional("size"),
		Remarks:        form.optional("remarks"),
		Status:         form.optional("status"),
	}
	if err := form.err(); err != nil {
		AbortWithError(c, err)
		return
	}

	image, err := s.saveUpload(c, "productImage", storage.AreaOrders)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.ImageProduct = optionalPath(image)

	order, err := s.orderSvc.Edit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "data": order})
}

type masterDataRequest struct {
	Name string `json:"name"`
}

// registerMasterData mounts create, list and delete for one master list.
// Writes always need auth; publicList leaves the list readable without it.
func registerMasterData[T any](r *gin.RouterGroup, auth gin.HandlerFunc, svc orderdomain.MasterData[T], publicList bool) {
	r.POST("/create", auth, func(c *gin.Context) {
		var req masterDataRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		item, err := svc.Create(c.Request.Context(), req.Name)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": item})
	})

	list := func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
	if publicList {
		r.GET("/get", list)
	} else {
		r.GET("/get", auth, list)
	}

	r.DELETE("/:id", auth, func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
	})
}
