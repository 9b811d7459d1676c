package httppresentation

import (
	"net/http"

	appStock "github.com/felipeshurrab/Harmonia/internal/application/stock"
	"github.com/gin-gonic/gin"
)

type addStockRequest struct {
	ProductID     string `json:"product_id" binding:"required,uuid"`
	Quantity      int    `json:"quantity" binding:"gt=0"`
	InvoiceNumber string `json:"invoice_number" binding:"required,max=50"`
}

func (h *Handler) handleAddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFault(c, bindingFault(err))
		return
	}

	actor, _ := actorFrom(c)
	entry, err := h.uc.AddStock.Execute(c.Request.Context(), appStock.AddStockInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		InvoiceNumber: req.InvoiceNumber,
		Actor:         actor,
	})
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStockEntryResponse(entry))
}

func (h *Handler) handleListStockEntries(c *gin.Context) {
	h.listStockEntries(c, "")
}

func (h *Handler) handleListStockEntriesByProduct(c *gin.Context) {
	h.listStockEntries(c, c.Param("productId"))
}

func (h *Handler) listStockEntries(c *gin.Context, productID string) {
	entries, err := h.uc.ListStockEntries.Execute(c.Request.Context(), appStock.ListEntriesInput{ProductID: productID})
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(entries, toStockEntryResponse))
}
