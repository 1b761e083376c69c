package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sopas/backend/internal/domain/agent"
	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// GormAgentRepository implements agent.Repository using GORM
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository creates a new GormAgentRepository
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{db: db}
}

func (r *GormAgentRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// Save creates or updates an agent
func (r *GormAgentRepository) Save(ctx context.Context, a *agent.Agent) error {
	return translateWriteError(r.conn(ctx).Save(a).Error)
}

// CreateAll inserts the agents in a single multi-row insert
func (r *GormAgentRepository) CreateAll(ctx context.Context, agents []*agent.Agent) error {
	if len(agents) == 0 {
		return nil
	}
	return translateWriteError(r.conn(ctx).Create(&agents).Error)
}

// FindByID finds an agent by its ID
func (r *GormAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	var a agent.Agent
	if err := r.conn(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByType finds agents by type and approval state
func (r *GormAgentRepository) FindByType(ctx context.Context, agentType agent.AgentType, approved bool) ([]agent.Agent, error) {
	var agents []agent.Agent
	if err := r.conn(ctx).
		Where("agent_type = ? AND approved = ?", agentType, approved).
		Order("created_at").
		Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// Delete deletes an agent
func (r *GormAgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.conn(ctx).Delete(&agent.Agent{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MaxSequence returns the highest agent identifier suffix for the prefix
func (r *GormAgentRepository) MaxSequence(ctx context.Context, prefix numbering.Prefix) (int64, error) {
	return maxSequence(r.conn(ctx), &agent.Agent{}, "agent_id", prefix)
}

var _ agent.Repository = (*GormAgentRepository)(nil)
