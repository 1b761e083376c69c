package handler

import (
	"github.com/gin-gonic/gin"

	storeapp "github.com/sopas/backend/internal/application/store"
	"github.com/sopas/backend/internal/interfaces/http/middleware"
)

// StoreHandler handles store API endpoints
type StoreHandler struct {
	BaseHandler
	stores *storeapp.Service
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(stores *storeapp.Service) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// RegisterRoutes registers store routes on the API group
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/stores")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// StoreListRequest filters the store list by approval state
type StoreListRequest struct {
	Approved bool `form:"approved,default=true"`
}

// Create creates a store and allocates its identifier
func (h *StoreHandler) Create(c *gin.Context) {
	var input storeapp.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !middleware.IsSuperUser(c) {
		input.Approved = false
	}

	created, err := h.stores.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toStoreResponse(created))
}

// List returns stores filtered by approval state
func (h *StoreHandler) List(c *gin.Context) {
	var req StoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stores, err := h.stores.ListByApproval(c.Request.Context(), req.Approved)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toStoreListResponse(stores))
}

// GetByID returns a single store
func (h *StoreHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	s, err := h.stores.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toStoreResponse(s))
}

// Update updates a store. Only super users can change the approval flag;
// edits by anyone else send the store back to pending approval.
func (h *StoreHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	var input storeapp.Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.stores.Update(c.Request.Context(), id, input, middleware.IsSuperUser(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toStoreResponse(updated))
}

// Delete removes a store
func (h *StoreHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	if err := h.stores.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
