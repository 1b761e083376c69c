package handler

import (
	"github.com/gin-gonic/gin"

	partyapp "github.com/sopas/backend/internal/application/party"
	"github.com/sopas/backend/internal/interfaces/http/dto"
)

// PartyHandler handles party API endpoints
type PartyHandler struct {
	BaseHandler
	parties *partyapp.Service
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(parties *partyapp.Service) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// RegisterRoutes registers party routes on the API group
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/parties")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// Create creates a party and allocates its customer identifier
func (h *PartyHandler) Create(c *gin.Context) {
	var input partyapp.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.parties.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toPartyResponse(created))
}

// List returns parties sorted by customer identifier
func (h *PartyHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := req.ToFilter()
	if filter.SortBy == "" {
		filter.SortBy = "customer_id"
	}

	parties, total, err := h.parties.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, toPartyListResponse(parties), dto.NewMeta(filter.Page, filter.PageSize, total))
}

// GetByID returns a single party
func (h *PartyHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	p, err := h.parties.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPartyResponse(p))
}

// Update updates a party. Changing identity attributes reassigns the
// customer identifier.
func (h *PartyHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	var input partyapp.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.parties.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toPartyResponse(updated))
}

// Delete removes a party
func (h *PartyHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	if err := h.parties.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
