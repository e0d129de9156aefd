package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type TicketRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Ticket, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Ticket, error)
	Update(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) error
}

type ticketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTicketRepo(db *gorm.DB, baseLog *logger.Logger) TicketRepo {
	repoLog := baseLog.With("repo", "TicketRepo")
	return &ticketRepo{db: db, log: repoLog}
}

func (r *ticketRepo) Create(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(ticket).Error; err != nil {
		return err
	}
	return nil
}

// GetByID returns (nil, nil) when the ticket does not exist.
func (r *ticketRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Ticket, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Ticket
	if id == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *ticketRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Ticket, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Ticket
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ticketRepo) Update(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(ticket).Error; err != nil {
		return err
	}
	return nil
}
