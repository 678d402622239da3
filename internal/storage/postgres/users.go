// internal/storage/postgres/users.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"libralend/internal/membership"
)

// UserRepository is a Postgres-backed membership.Repository.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository wraps an open database handle.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user *membership.User) error {
	query := `
		INSERT INTO users (id, username, name, role, password_hash, password_salt, active_loan_ids, fine_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			password_salt = EXCLUDED.password_salt,
			active_loan_ids = EXCLUDED.active_loan_ids,
			fine_balance = EXCLUDED.fine_balance
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Name, user.Role,
		user.PasswordHash, user.PasswordSalt,
		pq.Array(user.ActiveLoanIDs), user.FineBalance)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*membership.User, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*membership.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*membership.User, error) {
	query := `
		SELECT id, username, name, role, password_hash, password_salt, active_loan_ids, fine_balance
		FROM users
	` + where

	user := &membership.User{}
	var loanIDs pq.StringArray
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Role,
		&user.PasswordHash,
		&user.PasswordSalt,
		&loanIDs,
		&user.FineBalance,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, membership.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	user.ActiveLoanIDs = loanIDs
	return user, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*membership.User, error) {
	query := `
		SELECT id, username, name, role, password_hash, password_salt, active_loan_ids, fine_balance
		FROM users
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*membership.User
	for rows.Next() {
		user := &membership.User{}
		var loanIDs pq.StringArray
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Name,
			&user.Role,
			&user.PasswordHash,
			&user.PasswordSalt,
			&loanIDs,
			&user.FineBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user.ActiveLoanIDs = loanIDs
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return membership.ErrUserNotFound
	}
	return nil
}
