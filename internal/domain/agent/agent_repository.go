package agent

import (
	"context"

	"github.com/google/uuid"
	"github.com/sopas/backend/internal/domain/numbering"
)

// Repository is the persistence port for agents.
type Repository interface {
	Save(ctx context.Context, a *Agent) error
	CreateAll(ctx context.Context, agents []*Agent) error
	FindByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	FindByType(ctx context.Context, agentType AgentType, approved bool) ([]Agent, error)
	Delete(ctx context.Context, id uuid.UUID) error

	MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error)
}
