// internal/catalog/implementation.go
package catalog

import (
	"context"
	"fmt"

	"libralend/internal/eventlog"
	"libralend/internal/membership"
)

// service implements the Service interface.
type service struct {
	media  Repository
	events eventlog.Log
}

// NewService creates a new catalog service instance.
func NewService(media Repository, events eventlog.Log) Service {
	return &service{media: media, events: events}
}

// AddBook adds a book to the catalog. Only admins may do this.
func (s *service) AddBook(ctx context.Context, sess membership.Session, title, author, isbn string, copies int) (*Media, error) {
	if !sess.IsAdmin() {
		return nil, membership.ErrAdminRequired
	}
	if copies < 1 {
		return nil, ErrInvalidCopyCount
	}
	return s.add(ctx, NewBook(title, author, isbn, copies))
}

// AddCD adds a CD to the catalog. Only admins may do this.
func (s *service) AddCD(ctx context.Context, sess membership.Session, title, artist string, copies int) (*Media, error) {
	if !sess.IsAdmin() {
		return nil, membership.ErrAdminRequired
	}
	if copies < 1 {
		return nil, ErrInvalidCopyCount
	}
	return s.add(ctx, NewCD(title, artist, copies))
}

func (s *service) add(ctx context.Context, media *Media) (*Media, error) {
	if err := s.media.Save(ctx, media); err != nil {
		return nil, fmt.Errorf("save media: %w", err)
	}

	err := eventlog.Record(ctx, s.events, media.ID, "media", "MediaAdded", MediaAddedEvent{
		ID:       media.ID,
		Title:    media.Title,
		Category: media.Category,
		Copies:   media.TotalCopies,
	})
	if err != nil {
		return nil, fmt.Errorf("record media addition: %w", err)
	}

	return media, nil
}

// GetMedia retrieves a catalog entry by id.
func (s *service) GetMedia(ctx context.Context, id string) (*Media, error) {
	return s.media.FindByID(ctx, id)
}

// Search finds catalog entries matching a term. A blank term lists the
// whole catalog.
func (s *service) Search(ctx context.Context, term string) ([]*Media, error) {
	return s.media.Search(ctx, term)
}

// ListByCategory returns all entries of one category.
func (s *service) ListByCategory(ctx context.Context, category Category) ([]*Media, error) {
	all, err := s.media.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*Media
	for _, media := range all {
		if media.Category == category {
			matched = append(matched, media)
		}
	}
	return matched, nil
}
