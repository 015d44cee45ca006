package db

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/unclebandit/crm-backend/internal/model"
)

// UserRow maps the users table.
type UserRow struct {
	bun.BaseModel `bun:"table:users"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull"`
	Email         string    `bun:"email,notnull,unique"`
	PasswordHash  string    `bun:"password_hash,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (r UserRow) ToModel() model.User {
	return model.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// CustomerRow maps the customers table. Email is unique across all owners.
type CustomerRow struct {
	bun.BaseModel `bun:"table:customers"`
	ID            int64     `bun:"id,pk,autoincrement"`
	FirstName     string    `bun:"first_name,notnull"`
	LastName      string    `bun:"last_name,notnull"`
	Email         string    `bun:"email,notnull,unique"`
	Phone         string    `bun:"phone,notnull"`
	Address       string    `bun:"address,notnull"`
	OwnerID       int64     `bun:"owner_id,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (r CustomerRow) ToModel() model.Customer {
	return model.Customer{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
	}
}

// CustomerEventRow maps customer_events, the audit trail written by the worker.
type CustomerEventRow struct {
	bun.BaseModel `bun:"table:customer_events"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Type          string    `bun:"type,notnull"`
	CustomerID    int64     `bun:"customer_id,notnull"`
	OwnerID       int64     `bun:"owner_id,notnull"`
	Email         string    `bun:"email,notnull"`
	OccurredAt    time.Time `bun:"occurred_at,notnull"`
}

func (r CustomerEventRow) ToModel() model.CustomerEvent {
	return model.CustomerEvent{
		ID:         r.ID,
		Type:       r.Type,
		CustomerID: r.CustomerID,
		OwnerID:    r.OwnerID,
		Email:      r.Email,
		OccurredAt: r.OccurredAt,
	}
}
