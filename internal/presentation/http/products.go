package httppresentation

import (
	"net/http"

	appCatalog "github.com/felipeshurrab/Harmonia/internal/application/catalog"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=200"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price"`
}

// bindProduct also enforces price > 0, which binding tags cannot express on a
// decimal.
func bindProduct(c *gin.Context) (appCatalog.ProductInput, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFault(c, bindingFault(err))
		return appCatalog.ProductInput{}, false
	}
	if !req.Price.IsPositive() {
		writeFault(c, fault.Validation("one or more validation errors occurred",
			map[string][]string{"price": {"must be greater than 0"}}))
		return appCatalog.ProductInput{}, false
	}
	return appCatalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}, true
}

func (h *Handler) handleCreateProduct(c *gin.Context) {
	in, ok := bindProduct(c)
	if !ok {
		return
	}
	p, err := h.uc.CreateProduct.Execute(c.Request.Context(), in)
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

func (h *Handler) handleUpdateProduct(c *gin.Context) {
	in, ok := bindProduct(c)
	if !ok {
		return
	}
	p, err := h.uc.UpdateProduct.Execute(c.Request.Context(), appCatalog.UpdateProductInput{
		ID:           c.Param("id"),
		ProductInput: in,
	})
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *Handler) handleGetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *Handler) handleListProducts(c *gin.Context) {
	products, err := h.uc.ListProducts.Execute(c.Request.Context(), struct{}{})
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(products, toProductResponse))
}

func (h *Handler) handleDeleteProduct(c *gin.Context) {
	if _, err := h.uc.DeleteProduct.Execute(c.Request.Context(), c.Param("id")); err != nil {
		writeFault(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
