package repository

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/unclebandit/crm-backend/internal/db"
	"github.com/unclebandit/crm-backend/internal/model"
)

type EventRepositoryInterface interface {
	Create(ctx context.Context, e *model.CustomerEvent) error
	ListByCustomer(ctx context.Context, ownerID, customerID int64) ([]model.CustomerEvent, error)
}

// EventRepository stores the customer audit trail.
type EventRepository struct {
	DB bun.IDB
}

// Create inserts the event and sets its ID.
func (r *EventRepository) Create(ctx context.Context, e *model.CustomerEvent) error {
	row := &db.CustomerEventRow{
		Type:       e.Type,
		CustomerID: e.CustomerID,
		OwnerID:    e.OwnerID,
		Email:      e.Email,
		OccurredAt: e.OccurredAt.UTC(),
	}
	if _, err := r.DB.NewInsert().Model(row).Exec(ctx); err != nil {
		return err
	}
	e.ID = row.ID
	return nil
}

// ListByCustomer returns the events of one customer in the order they happened.
func (r *EventRepository) ListByCustomer(ctx context.Context, ownerID, customerID int64) ([]model.CustomerEvent, error) {
	var rows []db.CustomerEventRow
	err := r.DB.NewSelect().
		Model(&rows).
		Where("customer_id = ?", customerID).
		ApplyQueryBuilder(ownedBy(ownerID)).
		OrderExpr("occurred_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]model.CustomerEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.ToModel())
	}
	return events, nil
}

var _ EventRepositoryInterface = (*EventRepository)(nil)
