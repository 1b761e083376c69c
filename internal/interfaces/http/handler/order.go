package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/sopas/backend/internal/application/trade"
	"github.com/sopas/backend/internal/interfaces/http/dto"
)

// OrderHandler handles purchase order API endpoints
type OrderHandler struct {
	BaseHandler
	orders *tradeapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *tradeapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order routes on the API group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/orders")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.GET("/by-order-id/:orderID", h.GetByOrderID)
	group.POST("/:id/bom", h.MarkBOMCreated)
	group.POST("/:id/design-file", h.AttachDesignFile)
	group.DELETE("/:id", h.Delete)
}

// AttachDesignFileRequest carries the design file reference for an order
type AttachDesignFileRequest struct {
	FileURL string `json:"file_url" binding:"required"`
	Comment string `json:"comment"`
}

// Create creates an order and allocates its OID identifier
func (h *OrderHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input tradeapp.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.orders.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toOrderResponse(created))
}

// List returns orders sorted by order identifier
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if filter.SortBy == "" {
		filter.SortBy = "order_id"
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toOrderListResponse(orders), dto.NewMeta(filter.Page, filter.PageSize, total))
}

// GetByID returns a single order by its UUID
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	o, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// GetByOrderID returns a single order by its business identifier, e.g. OID001
func (h *OrderHandler) GetByOrderID(c *gin.Context) {
	o, err := h.orders.GetByOrderID(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// MarkBOMCreated moves an order to the BOM Created status
func (h *OrderHandler) MarkBOMCreated(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	o, err := h.orders.MarkBOMCreated(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// AttachDesignFile stores the design file reference on an order
func (h *OrderHandler) AttachDesignFile(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req AttachDesignFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	o, err := h.orders.AttachDesignFile(c.Request.Context(), id, req.FileURL, req.Comment)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toOrderResponse(o))
}

// Delete removes an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
