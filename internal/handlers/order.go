// internal/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmdirect/farmdirect-backend/internal/services"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /api/orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"orderId":     result.Order.ID,
		"totalAmount": result.Order.TotalAmount,
	})
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GET /api/farmers/:id/orders
func (h *OrderHandler) ListForFarmer(c *gin.Context) {
	farmerID, ok := utils.GetFarmerIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.orderService.ListForFarmer(c.Request.Context(), c.Param("id"), farmerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}
