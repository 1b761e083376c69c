package handler

import (
	"github.com/gin-gonic/gin"

	agentapp "github.com/sopas/backend/internal/application/agent"
	"github.com/sopas/backend/internal/domain/agent"
	"github.com/sopas/backend/internal/interfaces/http/middleware"
)

// AgentHandler handles agent API endpoints
type AgentHandler struct {
	BaseHandler
	agents *agentapp.Service
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agents *agentapp.Service) *AgentHandler {
	return &AgentHandler{agents: agents}
}

// RegisterRoutes registers agent routes on the API group
func (h *AgentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/agents")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.POST("/:id/approve", h.Approve)
	group.DELETE("/:id", h.Delete)
}

// AgentListRequest filters the agent list by type and approval state
type AgentListRequest struct {
	Type     string `form:"type" binding:"required,oneof=buyer supplier"`
	Approved bool   `form:"approved,default=true"`
}

// Create creates an agent and allocates its identifier
func (h *AgentHandler) Create(c *gin.Context) {
	var input agentapp.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !middleware.IsSuperUser(c) {
		input.Approved = false
	}

	created, err := h.agents.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, toAgentResponse(created))
}

// List returns agents of one type filtered by approval state
func (h *AgentHandler) List(c *gin.Context) {
	var req AgentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	agents, err := h.agents.ListByType(c.Request.Context(), agent.AgentType(req.Type), req.Approved)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toAgentListResponse(agents))
}

// GetByID returns a single agent
func (h *AgentHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	a, err := h.agents.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toAgentResponse(a))
}

// Update updates an agent's details. The agent identifier never changes.
func (h *AgentHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	var input agentapp.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !middleware.IsSuperUser(c) {
		input.Approved = false
	}

	updated, err := h.agents.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toAgentResponse(updated))
}

// Approve marks an agent as approved
func (h *AgentHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	approved, err := h.agents.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toAgentResponse(approved))
}

// Delete removes an agent
func (h *AgentHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	if err := h.agents.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
