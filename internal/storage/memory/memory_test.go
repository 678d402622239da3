// internal/storage/memory/memory_test.go
package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libralend/internal/catalog"
	"libralend/internal/circulation"
	"libralend/internal/clock"
	"libralend/internal/membership"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	alice := membership.NewUser("alice", "Alice", membership.RoleMember, "hash", "salt")
	bob := membership.NewUser("bob", "Bob", membership.RoleMember, "hash", "salt")
	require.NoError(t, repo.Save(ctx, alice))
	require.NoError(t, repo.Save(ctx, bob))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)

		_, err = repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, membership.ErrUserNotFound)
	})

	t.Run("find by username", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, found.ID)

		_, err = repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, membership.ErrUserNotFound)
	})

	t.Run("find all preserves insertion order", func(t *testing.T) {
		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)
	})

	t.Run("mutations are invisible until saved", func(t *testing.T) {
		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		found.AddLoan("loan-1")

		reloaded, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.False(t, reloaded.HasActiveLoans())

		require.NoError(t, repo.Save(ctx, found))
		reloaded, err = repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.HasActiveLoans())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, bob.ID))
		_, err := repo.FindByID(ctx, bob.ID)
		assert.ErrorIs(t, err, membership.ErrUserNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, bob.ID), membership.ErrUserNotFound)
	})
}

func TestMediaRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMediaRepository()

	book := catalog.NewBook("Clean Code", "Robert C. Martin", "isbn", 2)
	cd := catalog.NewCD("Back in Black", "AC/DC", 1)
	require.NoError(t, repo.Save(ctx, book))
	require.NoError(t, repo.Save(ctx, cd))

	t.Run("find all sorted by title", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Back in Black", all[0].Title)
		assert.Equal(t, "Clean Code", all[1].Title)
	})

	t.Run("search", func(t *testing.T) {
		matched, err := repo.Search(ctx, "martin")
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, book.ID, matched[0].ID)
	})

	t.Run("mutations are invisible until saved", func(t *testing.T) {
		found, err := repo.FindByID(ctx, book.ID)
		require.NoError(t, err)
		found.TakeCopy()

		reloaded, err := repo.FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, reloaded.CopiesAvailable)
	})

	t.Run("remove", func(t *testing.T) {
		repo.Remove(cd.ID)
		_, err := repo.FindByID(ctx, cd.ID)
		assert.ErrorIs(t, err, catalog.ErrMediaNotFound)
	})
}

func TestLoanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLoanRepository()
	today := clock.Date(2025, time.January, 1)

	first := circulation.NewLoan("user-1", "media-1", today, catalog.CategoryBook)
	second := circulation.NewLoan("user-1", "media-2", today, catalog.CategoryCD)
	other := circulation.NewLoan("user-2", "media-3", today, catalog.CategoryBook)
	for _, loan := range []*circulation.Loan{first, second, other} {
		require.NoError(t, repo.Save(ctx, loan))
	}

	t.Run("active by user in insertion order", func(t *testing.T) {
		active, err := repo.FindActiveByUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, first.ID, active[0].ID)
		assert.Equal(t, second.ID, active[1].ID)
	})

	t.Run("returned loans drop out of the active set", func(t *testing.T) {
		second.MarkReturned(today.AddDate(0, 0, 5))
		require.NoError(t, repo.Save(ctx, second))

		active, err := repo.FindActiveByUser(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, first.ID, active[0].ID)
	})

	t.Run("active by media", func(t *testing.T) {
		found, err := repo.FindActiveByMedia(ctx, "media-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)

		_, err = repo.FindActiveByMedia(ctx, "media-2")
		assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, other.ID))
		_, err := repo.FindByID(ctx, other.ID)
		assert.ErrorIs(t, err, circulation.ErrLoanNotFound)
	})
}
