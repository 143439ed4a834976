package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

type UserRepository struct {
	db *sqlx.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	var row struct {
		ID    uint64 `db:"id"`
		Name  string `db:"name"`
		Email string `db:"email"`
	}
	err := r.db.GetContext(ctx, &row, "SELECT id, name, email FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &domain.User{ID: row.ID, Name: row.Name, Email: row.Email}, nil
}
