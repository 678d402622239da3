// internal/catalog/domain.go
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Category enumerates the media kinds the library lends out. The set is
// closed: loan periods and fine rates are keyed off it.
type Category string

const (
	CategoryBook Category = "BOOK"
	CategoryCD   Category = "CD"
)

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrInvalidCopyCount = errors.New("copy count must be at least one")
)

// Media is a catalog entry. It is a tagged variant: Category decides which
// of the payload fields are meaningful (Author/ISBN for books, Artist for
// CDs). Availability is a copy count, never a bare boolean.
type Media struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Category        Category `json:"category"`
	Author          string   `json:"author,omitempty"`
	ISBN            string   `json:"isbn,omitempty"`
	Artist          string   `json:"artist,omitempty"`
	TotalCopies     int      `json:"total_copies"`
	CopiesAvailable int      `json:"copies_available"`
}

// NewBook creates a book entry with the given number of physical copies.
func NewBook(title, author, isbn string, copies int) *Media {
	return &Media{
		ID:              uuid.NewString(),
		Title:           title,
		Category:        CategoryBook,
		Author:          author,
		ISBN:            isbn,
		TotalCopies:     copies,
		CopiesAvailable: copies,
	}
}

// NewCD creates a CD entry with the given number of physical copies.
func NewCD(title, artist string, copies int) *Media {
	return &Media{
		ID:              uuid.NewString(),
		Title:           title,
		Category:        CategoryCD,
		Artist:          artist,
		TotalCopies:     copies,
		CopiesAvailable: copies,
	}
}

// Available reports whether at least one copy can be lent out.
func (m *Media) Available() bool {
	return m.CopiesAvailable > 0
}

// TakeCopy removes one copy from circulation. The count never drops
// below zero.
func (m *Media) TakeCopy() {
	if m.CopiesAvailable > 0 {
		m.CopiesAvailable--
	}
}

// ReturnCopy puts one copy back into circulation.
func (m *Media) ReturnCopy() {
	m.CopiesAvailable++
}

// Matches reports whether the entry matches a search term. Blank terms
// match everything; otherwise the term is compared case-insensitively
// against title, author, ISBN and artist.
func (m *Media) Matches(term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}
	for _, field := range []string{m.Title, m.Author, m.ISBN, m.Artist} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy so repository callers can mutate
// freely before saving.
func (m *Media) Clone() *Media {
	clone := *m
	return &clone
}

// Repository persists catalog entries.
type Repository interface {
	Save(ctx context.Context, media *Media) error
	FindByID(ctx context.Context, id string) (*Media, error)
	FindAll(ctx context.Context) ([]*Media, error)
	Search(ctx context.Context, term string) ([]*Media, error)
}

// MediaAddedEvent is recorded when an entry joins the catalog.
type MediaAddedEvent struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Copies   int      `json:"copies"`
}
