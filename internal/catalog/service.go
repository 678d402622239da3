// internal/catalog/service.go
package catalog

import (
	"context"

	"libralend/internal/membership"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, sess membership.Session, title, author, isbn string, copies int) (*Media, error)
	AddCD(ctx context.Context, sess membership.Session, title, artist string, copies int) (*Media, error)
	GetMedia(ctx context.Context, id string) (*Media, error)
	Search(ctx context.Context, term string) ([]*Media, error)
	ListByCategory(ctx context.Context, category Category) ([]*Media, error)
}
