package agent

import (
	"strings"
	"time"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// AgentType is the side of trade an agent works.
type AgentType string

const (
	TypeBuyer    AgentType = "buyer"
	TypeSupplier AgentType = "supplier"
)

// Agent is a buyer or supplier merchant.
//
// Identifier policy: immutable after creation.
type Agent struct {
	shared.BaseAggregateRoot
	AgentID       string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string    `gorm:"type:varchar(200);not null"`
	AgentType     AgentType `gorm:"type:varchar(20);not null;index"`
	ContactNumber string    `gorm:"type:varchar(50)"`
	Email         string    `gorm:"type:varchar(200)"`
	Company       string    `gorm:"type:varchar(200)"`
	GSTIN         string    `gorm:"type:varchar(20)"`
	AddressLine1  string    `gorm:"type:text"`
	City          string    `gorm:"type:varchar(100)"`
	State         string    `gorm:"type:varchar(100)"`
	Approved      bool      `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Agent) TableName() string {
	return "agents"
}

// NewAgent creates an agent with an already-allocated identifier.
func NewAgent(agentID numbering.Identifier, name string, agentType AgentType) (*Agent, error) {
	if agentID == "" {
		return nil, shared.NewDomainError("INVALID_AGENT_ID", "Agent ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Agent name cannot be empty")
	}
	if err := validateAgentType(agentType); err != nil {
		return nil, err
	}

	return &Agent{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AgentID:           agentID.String(),
		Name:              name,
		AgentType:         agentType,
	}, nil
}

// Update replaces the agent's editable details.
func (a *Agent) Update(name string, agentType AgentType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Agent name cannot be empty")
	}
	if err := validateAgentType(agentType); err != nil {
		return err
	}
	a.Name = name
	a.AgentType = agentType
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetContact sets contact details.
func (a *Agent) SetContact(contactNumber, email, company string) {
	a.ContactNumber = contactNumber
	a.Email = email
	a.Company = company
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetAddress sets the agent's address.
func (a *Agent) SetAddress(line1, city, state string) {
	a.AddressLine1 = line1
	a.City = city
	a.State = state
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Approve marks the agent as approved. Only super users create
// pre-approved agents; everyone else goes through this.
func (a *Agent) Approve() error {
	if a.Approved {
		return shared.NewDomainError("ALREADY_APPROVED", "Agent is already approved")
	}
	a.Approved = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

func validateAgentType(t AgentType) error {
	switch t {
	case TypeBuyer, TypeSupplier:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Agent type must be 'buyer' or 'supplier'")
	}
}
