package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/unclebandit/crm-backend/internal/db"
	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

// CustomerRepositoryInterface defines the owner-scoped operations used by the service.
// Every method takes the acting owner; rows owned by anyone else behave as if
// they did not exist.
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, ownerID int64, f model.CustomerFields) (*model.Customer, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Customer, error)
	GetByID(ctx context.Context, ownerID, id int64) (*model.Customer, error)
	Update(ctx context.Context, ownerID, id int64, f model.CustomerFields) (*model.Customer, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// CustomerRepository is the bun-backed implementation.
//
// Returned errors: appErrors.NotFoundError for missing or foreign rows,
// db.ErrDuplicate for email collisions, anything else as-is from the driver.
type CustomerRepository struct {
	DB bun.IDB
}

// ownedBy is the single place the owner filter is built.
func ownedBy(ownerID int64) func(bun.QueryBuilder) bun.QueryBuilder {
	return func(q bun.QueryBuilder) bun.QueryBuilder {
		return q.Where("owner_id = ?", ownerID)
	}
}

func (r *CustomerRepository) Create(ctx context.Context, ownerID int64, f model.CustomerFields) (*model.Customer, error) {
	row := &db.CustomerRow{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if _, err := r.DB.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, db.MapDBError(err)
	}
	c := row.ToModel()
	return &c, nil
}

// ListByOwner returns the owner's customers, most recent first.
func (r *CustomerRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Customer, error) {
	var rows []db.CustomerRow
	err := r.DB.NewSelect().
		Model(&rows).
		ApplyQueryBuilder(ownedBy(ownerID)).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.ToModel())
	}
	return customers, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, ownerID, id int64) (*model.Customer, error) {
	return getOwned(ctx, r.DB, ownerID, id)
}

// Update replaces every mutable field in one transaction. The re-read happens
// inside the same transaction so callers never see a half-applied row.
func (r *CustomerRepository) Update(ctx context.Context, ownerID, id int64, f model.CustomerFields) (*model.Customer, error) {
	var updated *model.Customer
	err := r.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := &db.CustomerRow{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
			Phone:     f.Phone,
			Address:   f.Address,
		}
		res, err := tx.NewUpdate().
			Model(row).
			Column("first_name", "last_name", "email", "phone", "address").
			Where("id = ?", id).
			ApplyQueryBuilder(ownedBy(ownerID)).
			Exec(ctx)
		if err != nil {
			return db.MapDBError(err)
		}
		if err := expectOneRow(res, id); err != nil {
			return err
		}

		updated, err = getOwned(ctx, &tx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.DB.NewDelete().
		Model((*db.CustomerRow)(nil)).
		Where("id = ?", id).
		ApplyQueryBuilder(ownedBy(ownerID)).
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectOneRow(res, id)
}

func getOwned(ctx context.Context, idb bun.IDB, ownerID, id int64) (*model.Customer, error) {
	var row db.CustomerRow
	err := idb.NewSelect().
		Model(&row).
		Where("id = ?", id).
		ApplyQueryBuilder(ownedBy(ownerID)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCustomerNotFound(id)
		}
		return nil, err
	}
	c := row.ToModel()
	return &c, nil
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewCustomerNotFound(id)
	}
	return nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
