// internal/storage/postgres/loans.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libralend/internal/circulation"
)

// LoanRepository is a Postgres-backed circulation.LoanRepository.
type LoanRepository struct {
	db *sql.DB
}

// NewLoanRepository wraps an open database handle.
func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Save(ctx context.Context, loan *circulation.Loan) error {
	var returned sql.NullTime
	if loan.Returned() {
		returned = sql.NullTime{Time: loan.ReturnedDate, Valid: true}
	}

	query := `
		INSERT INTO loans (id, user_id, media_id, checkout_date, due_date, returned_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET returned_date = EXCLUDED.returned_date
	`
	_, err := r.db.ExecContext(ctx, query,
		loan.ID, loan.UserID, loan.MediaID, loan.CheckoutDate, loan.DueDate, returned)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	return nil
}

const loanColumns = `id, user_id, media_id, checkout_date, due_date, returned_date`

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*circulation.Loan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, circulation.ErrLoanNotFound
		}
		return nil, fmt.Errorf("query loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) FindActiveByUser(ctx context.Context, userID string) ([]*circulation.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1 AND returned_date IS NULL
		ORDER BY checkout_date, id
	`
	return r.query(ctx, query, userID)
}

func (r *LoanRepository) FindActiveByMedia(ctx context.Context, mediaID string) (*circulation.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE media_id = $1 AND returned_date IS NULL
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, mediaID)
	loan, err := scanLoan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, circulation.ErrLoanNotFound
		}
		return nil, fmt.Errorf("query loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) FindAll(ctx context.Context) ([]*circulation.Loan, error) {
	return r.query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY checkout_date, id`)
}

func (r *LoanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return circulation.ErrLoanNotFound
	}
	return nil
}

func (r *LoanRepository) query(ctx context.Context, query string, args ...any) ([]*circulation.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []*circulation.Loan
	for rows.Next() {
		loan, err := scanLoan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func scanLoan(scan func(...any) error) (*circulation.Loan, error) {
	loan := &circulation.Loan{}
	var returned sql.NullTime
	err := scan(
		&loan.ID,
		&loan.UserID,
		&loan.MediaID,
		&loan.CheckoutDate,
		&loan.DueDate,
		&returned,
	)
	if err != nil {
		return nil, err
	}
	loan.CheckoutDate = asDate(loan.CheckoutDate)
	loan.DueDate = asDate(loan.DueDate)
	if returned.Valid {
		loan.ReturnedDate = asDate(returned.Time)
	}
	return loan, nil
}

// asDate normalizes DATE columns to midnight UTC regardless of the
// session timezone the driver applied.
func asDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
