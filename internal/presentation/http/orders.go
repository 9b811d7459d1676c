package httppresentation

import (
	"net/http"
	"strings"

	appOrder "github.com/felipeshurrab/Harmonia/internal/application/order"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/gin-gonic/gin"
)

const headerIdempotencyKey = "Idempotency-Key"

type placeOrderLineRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"gt=0"`
}

type placeOrderRequest struct {
	DocumentType     string                  `json:"document_type" binding:"required,document_type"`
	CustomerDocument string                  `json:"customer_document" binding:"required,number"`
	Items            []placeOrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

func (h *Handler) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeFault(c, bindingFault(err))
		return
	}
	if msg := documentLengthError(req.DocumentType, req.CustomerDocument); msg != "" {
		writeFault(c, fault.Validation("one or more validation errors occurred",
			map[string][]string{"customer_document": {msg}}))
		return
	}

	actor, _ := actorFrom(c)
	lines := make([]appOrder.PlaceOrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, appOrder.PlaceOrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	o, err := h.uc.PlaceOrder.Execute(c.Request.Context(), appOrder.PlaceOrderInput{
		DocumentType:     req.DocumentType,
		CustomerDocument: req.CustomerDocument,
		SellerID:         actor.ID,
		SellerName:       actor.Name,
		Items:            lines,
		IdempotencyKey:   strings.TrimSpace(c.GetHeader(headerIdempotencyKey)),
	})
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) handleListOrders(c *gin.Context) {
	actor, _ := actorFrom(c)
	orders, err := h.uc.ListOrders.Execute(c.Request.Context(), actor)
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(orders, toOrderResponse))
}

func (h *Handler) handleGetOrder(c *gin.Context) {
	actor, _ := actorFrom(c)
	o, err := h.uc.GetOrder.Execute(c.Request.Context(), appOrder.GetOrderInput{
		Actor:   actor,
		OrderID: c.Param("id"),
	})
	if err != nil {
		writeFault(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}
