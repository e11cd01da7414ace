package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercatto/pos/internal/application/checkout"
	"github.com/mercatto/pos/internal/interfaces/http/middleware"
)

// CheckoutHandler exposes the checkout flow over HTTP
type CheckoutHandler struct {
	BaseHandler
	service *checkout.Service
}

// NewCheckoutHandler creates a checkout handler
func NewCheckoutHandler(service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// RegisterRoutes registers checkout routes on the given group
func (h *CheckoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	drafts := r.Group("/checkout/drafts")
	{
		drafts.POST("", h.Start)
		drafts.GET("/:id", h.Get)
		drafts.DELETE("/:id", h.Cancel)
		drafts.PUT("/:id/customer", h.SetCustomer)
		drafts.POST("/:id/items", h.AddItem)
		drafts.PATCH("/:id/items/:productId", h.UpdateItem)
		drafts.DELETE("/:id/items/:productId", h.RemoveItem)
		drafts.PUT("/:id/discount", h.SetOverallDiscount)
		drafts.PUT("/:id/payments", h.SetPayment)
		drafts.POST("/:id/advance", h.Advance)
		drafts.POST("/:id/back", h.Back)
		drafts.POST("/:id/confirm", h.Confirm)
	}
}

// Start opens a new checkout flow
func (h *CheckoutHandler) Start(c *gin.Context) {
	h.Created(c, h.service.Start())
}

// Get returns the current flow state
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Get(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel discards the flow
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Cancel(id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type setCustomerRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// SetCustomer selects the customer for the sale
func (h *CheckoutHandler) SetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req setCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.SetCustomer(c.Request.Context(), id, req.CustomerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem adds a product line to the draft
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req checkout.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.AddItem(id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem patches a line's quantity or discount
func (h *CheckoutHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	var req checkout.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.UpdateItem(id, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem drops a line from the draft
func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.service.RemoveItem(id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetOverallDiscount sets or clears the sale-level discount
func (h *CheckoutHandler) SetOverallDiscount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req checkout.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.SetOverallDiscount(id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetPayment records one payment line of the split
func (h *CheckoutHandler) SetPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req checkout.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	resp, err := h.service.SetPayment(id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Advance moves the wizard to the next step
func (h *CheckoutHandler) Advance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Advance(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Back moves the wizard to the previous step
func (h *CheckoutHandler) Back(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.Back(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

type confirmResponse struct {
	SaleID uuid.UUID `json:"sale_id"`
	Total  string    `json:"total"`
}

// Confirm composes the draft and submits it to the backend
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	created, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, confirmResponse{SaleID: created.ID, Total: created.TotalAmount.StringFixed(2)})
}
