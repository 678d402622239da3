// internal/catalog/implementation_test.go
package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libralend/internal/catalog"
	"libralend/internal/eventlog"
	"libralend/internal/membership"
	"libralend/internal/storage/memory"
)

var (
	adminSession  = membership.Session{UserID: "admin-1", Username: "admin", Role: membership.RoleAdmin}
	memberSession = membership.Session{UserID: "member-1", Username: "alice", Role: membership.RoleMember}
)

func newCatalog(t *testing.T) (catalog.Service, *eventlog.Memory) {
	t.Helper()
	events := eventlog.NewMemory()
	return catalog.NewService(memory.NewMediaRepository(), events), events
}

func TestAddBook(t *testing.T) {
	ctx := context.Background()
	service, events := newCatalog(t)

	book, err := service.AddBook(ctx, adminSession, "Clean Code", "Robert C. Martin", "9780132350884", 2)
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, catalog.CategoryBook, book.Category)
	assert.Equal(t, 2, book.TotalCopies)
	assert.Equal(t, 2, book.CopiesAvailable)
	assert.True(t, book.Available())

	recorded, err := events.ByAggregate(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "MediaAdded", recorded[0].EventType)
}

func TestAddCD(t *testing.T) {
	ctx := context.Background()
	service, _ := newCatalog(t)

	cd, err := service.AddCD(ctx, adminSession, "Thriller", "Michael Jackson", 1)
	require.NoError(t, err)

	assert.Equal(t, catalog.CategoryCD, cd.Category)
	assert.Equal(t, "Michael Jackson", cd.Artist)
	assert.Empty(t, cd.Author)
}

func TestAddMediaRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	service, _ := newCatalog(t)

	_, err := service.AddBook(ctx, memberSession, "Clean Code", "Robert C. Martin", "9780132350884", 1)
	assert.ErrorIs(t, err, membership.ErrAdminRequired)

	_, err = service.AddCD(ctx, memberSession, "Thriller", "Michael Jackson", 1)
	assert.ErrorIs(t, err, membership.ErrAdminRequired)
}

func TestAddMediaRejectsZeroCopies(t *testing.T) {
	ctx := context.Background()
	service, _ := newCatalog(t)

	_, err := service.AddBook(ctx, adminSession, "Clean Code", "Robert C. Martin", "9780132350884", 0)
	assert.ErrorIs(t, err, catalog.ErrInvalidCopyCount)

	_, err = service.AddCD(ctx, adminSession, "Thriller", "Michael Jackson", -1)
	assert.ErrorIs(t, err, catalog.ErrInvalidCopyCount)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	service, _ := newCatalog(t)

	_, err := service.AddBook(ctx, adminSession, "Effective Java", "Joshua Bloch", "9780134685991", 1)
	require.NoError(t, err)
	_, err = service.AddCD(ctx, adminSession, "Back in Black", "AC/DC", 1)
	require.NoError(t, err)

	t.Run("by title fragment", func(t *testing.T) {
		results, err := service.Search(ctx, "effective")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Effective Java", results[0].Title)
	})

	t.Run("by artist", func(t *testing.T) {
		results, err := service.Search(ctx, "ac/dc")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Back in Black", results[0].Title)
	})

	t.Run("by isbn", func(t *testing.T) {
		results, err := service.Search(ctx, "9780134685991")
		require.NoError(t, err)
		require.Len(t, results, 1)
	})

	t.Run("blank term lists everything", func(t *testing.T) {
		results, err := service.Search(ctx, "")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := service.Search(ctx, "does not exist")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestListByCategory(t *testing.T) {
	ctx := context.Background()
	service, _ := newCatalog(t)

	_, err := service.AddBook(ctx, adminSession, "Effective Java", "Joshua Bloch", "9780134685991", 1)
	require.NoError(t, err)
	_, err = service.AddCD(ctx, adminSession, "Back in Black", "AC/DC", 1)
	require.NoError(t, err)

	books, err := service.ListByCategory(ctx, catalog.CategoryBook)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, catalog.CategoryBook, books[0].Category)

	cds, err := service.ListByCategory(ctx, catalog.CategoryCD)
	require.NoError(t, err)
	require.Len(t, cds, 1)
	assert.Equal(t, catalog.CategoryCD, cds[0].Category)
}

func TestGetMedia(t *testing.T) {
	ctx := context.Background()
	service, _ := newCatalog(t)

	book, err := service.AddBook(ctx, adminSession, "Clean Code", "Robert C. Martin", "9780132350884", 1)
	require.NoError(t, err)

	found, err := service.GetMedia(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, found.ID)

	_, err = service.GetMedia(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrMediaNotFound)
}
