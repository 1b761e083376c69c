package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/sopas/backend/internal/application/identity"
)

// SubscriptionHandler handles subscription order endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptions *identityapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions *identityapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// RegisterRoutes registers subscription routes on the API group
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/subscriptions")
	group.POST("", h.Purchase)
	group.GET("", h.List)
	group.POST("/:id/confirm-payment", h.ConfirmPayment)
}

// Purchase creates a subscription order for the authenticated user
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input identityapp.PurchaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.subscriptions.Purchase(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toSubscriptionResponse(order))
}

// List returns the authenticated user's subscription orders
func (h *SubscriptionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.subscriptions.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toSubscriptionListResponse(orders))
}

// ConfirmPayment marks one of the user's subscription orders as paid
func (h *SubscriptionHandler) ConfirmPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid subscription order ID format")
		return
	}

	order, err := h.subscriptions.ConfirmPayment(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toSubscriptionResponse(order))
}
