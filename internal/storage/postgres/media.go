// internal/storage/postgres/media.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"libralend/internal/catalog"
)

// MediaRepository is a Postgres-backed catalog.Repository.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository wraps an open database handle.
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Save(ctx context.Context, media *catalog.Media) error {
	query := `
		INSERT INTO media (id, title, category, author, isbn, artist, total_copies, copies_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			total_copies = EXCLUDED.total_copies,
			copies_available = EXCLUDED.copies_available
	`
	_, err := r.db.ExecContext(ctx, query,
		media.ID, media.Title, media.Category, media.Author, media.ISBN, media.Artist,
		media.TotalCopies, media.CopiesAvailable)
	if err != nil {
		return fmt.Errorf("save media: %w", err)
	}
	return nil
}

const mediaColumns = `id, title, category, author, isbn, artist, total_copies, copies_available`

func (r *MediaRepository) FindByID(ctx context.Context, id string) (*catalog.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media WHERE id = $1`

	media := &catalog.Media{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&media.ID,
		&media.Title,
		&media.Category,
		&media.Author,
		&media.ISBN,
		&media.Artist,
		&media.TotalCopies,
		&media.CopiesAvailable,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrMediaNotFound
		}
		return nil, fmt.Errorf("query media: %w", err)
	}
	return media, nil
}

func (r *MediaRepository) FindAll(ctx context.Context) ([]*catalog.Media, error) {
	return r.query(ctx, `SELECT `+mediaColumns+` FROM media ORDER BY title`)
}

func (r *MediaRepository) Search(ctx context.Context, term string) ([]*catalog.Media, error) {
	if term == "" {
		return r.FindAll(ctx)
	}
	query := `
		SELECT ` + mediaColumns + `
		FROM media
		WHERE title ILIKE $1 OR author ILIKE $1 OR isbn ILIKE $1 OR artist ILIKE $1
		ORDER BY title
	`
	return r.query(ctx, query, "%"+term+"%")
}

func (r *MediaRepository) query(ctx context.Context, query string, args ...any) ([]*catalog.Media, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rows.Close()

	var all []*catalog.Media
	for rows.Next() {
		media := &catalog.Media{}
		err := rows.Scan(
			&media.ID,
			&media.Title,
			&media.Category,
			&media.Author,
			&media.ISBN,
			&media.Artist,
			&media.TotalCopies,
			&media.CopiesAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		all = append(all, media)
	}
	return all, rows.Err()
}
