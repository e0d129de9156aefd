package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helioslabs/supportdesk-backend/internal/logger"
	"github.com/helioslabs/supportdesk-backend/internal/types"
)

type TicketStatusHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.TicketStatusHistory) error
	GetByTicketID(ctx context.Context, tx *gorm.DB, ticketID uuid.UUID) ([]*types.TicketStatusHistory, error)
}

type ticketStatusHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTicketStatusHistoryRepo(db *gorm.DB, baseLog *logger.Logger) TicketStatusHistoryRepo {
	repoLog := baseLog.With("repo", "TicketStatusHistoryRepo")
	return &ticketStatusHistoryRepo{db: db, log: repoLog}
}

func (r *ticketStatusHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.TicketStatusHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}
	return nil
}

func (r *ticketStatusHistoryRepo) GetByTicketID(ctx context.Context, tx *gorm.DB, ticketID uuid.UUID) ([]*types.TicketStatusHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TicketStatusHistory
	if ticketID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("changed_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
