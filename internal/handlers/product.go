// internal/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/services"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /api/products?category=&farmerId=
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), services.ProductQuery{
		Category: c.Query("category"),
		FarmerID: c.Query("farmerId"),
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req, callerID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req, callerID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id"), callerID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyProductDeleted),
	})
}

// callerID is the authenticated farmer, or nil for anonymous requests.
func callerID(c *gin.Context) *uuid.UUID {
	if id, ok := utils.GetFarmerIDFromContext(c); ok {
		return &id
	}
	return nil
}
