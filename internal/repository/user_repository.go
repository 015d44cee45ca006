package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/unclebandit/crm-backend/internal/db"
	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type UserRepository struct {
	DB bun.IDB
}

// Create inserts a user. Emails are stored lower-cased; a collision returns db.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	row := &db.UserRow{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if _, err := r.DB.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, db.MapDBError(err)
	}
	u := row.ToModel()
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var row db.UserRow
	if err := r.DB.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewUserNotFound(id)
		}
		return nil, err
	}
	u := row.ToModel()
	return &u, nil
}

// GetByEmail returns nil, nil when no user has that email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var row db.UserRow
	err := r.DB.NewSelect().Model(&row).Where("email = ?", strings.ToLower(email)).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u := row.ToModel()
	return &u, nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
