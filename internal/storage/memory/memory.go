// internal/storage/memory/memory.go

// Package memory provides map-backed repository adapters. They clone
// entities on the way in and out so callers can mutate freely and only
// Save makes a change visible, matching the persistence contract the
// services rely on.
package memory

import (
	"context"
	"sort"
	"sync"

	"libralend/internal/catalog"
	"libralend/internal/circulation"
	"libralend/internal/membership"
)

// UserRepository is an in-memory membership.Repository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*membership.User
	order []string
}

// NewUserRepository creates an empty user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*membership.User)}
}

func (r *UserRepository) Save(_ context.Context, user *membership.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; !exists {
		r.order = append(r.order, user.ID)
	}
	r.users[user.ID] = user.Clone()
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*membership.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, membership.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*membership.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			return user.Clone(), nil
		}
	}
	return nil, membership.ErrUserNotFound
}

// FindAll returns users in insertion order so reminder sweeps are
// deterministic.
func (r *UserRepository) FindAll(_ context.Context) ([]*membership.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*membership.User, 0, len(r.order))
	for _, id := range r.order {
		if user, ok := r.users[id]; ok {
			users = append(users, user.Clone())
		}
	}
	return users, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return membership.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// MediaRepository is an in-memory catalog.Repository.
type MediaRepository struct {
	mu    sync.RWMutex
	media map[string]*catalog.Media
}

// NewMediaRepository creates an empty media repository.
func NewMediaRepository() *MediaRepository {
	return &MediaRepository{media: make(map[string]*catalog.Media)}
}

func (r *MediaRepository) Save(_ context.Context, media *catalog.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.media[media.ID] = media.Clone()
	return nil
}

func (r *MediaRepository) FindByID(_ context.Context, id string) (*catalog.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	media, ok := r.media[id]
	if !ok {
		return nil, catalog.ErrMediaNotFound
	}
	return media.Clone(), nil
}

func (r *MediaRepository) FindAll(_ context.Context) ([]*catalog.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*catalog.Media, 0, len(r.media))
	for _, media := range r.media {
		all = append(all, media.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return all, nil
}

func (r *MediaRepository) Search(ctx context.Context, term string) ([]*catalog.Media, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*catalog.Media
	for _, media := range all {
		if media.Matches(term) {
			matched = append(matched, media)
		}
	}
	return matched, nil
}

// Remove deletes a media entry. Not part of catalog.Repository; used by
// tests to simulate data corruption.
func (r *MediaRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.media, id)
}

// LoanRepository is an in-memory circulation.LoanRepository.
type LoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*circulation.Loan
	order []string
}

// NewLoanRepository creates an empty loan repository.
func NewLoanRepository() *LoanRepository {
	return &LoanRepository{loans: make(map[string]*circulation.Loan)}
}

func (r *LoanRepository) Save(_ context.Context, loan *circulation.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.loans[loan.ID]; !exists {
		r.order = append(r.order, loan.ID)
	}
	r.loans[loan.ID] = loan.Clone()
	return nil
}

func (r *LoanRepository) FindByID(_ context.Context, id string) (*circulation.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loan, ok := r.loans[id]
	if !ok {
		return nil, circulation.ErrLoanNotFound
	}
	return loan.Clone(), nil
}

func (r *LoanRepository) FindActiveByUser(_ context.Context, userID string) ([]*circulation.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var active []*circulation.Loan
	for _, id := range r.order {
		loan, ok := r.loans[id]
		if ok && loan.UserID == userID && !loan.Returned() {
			active = append(active, loan.Clone())
		}
	}
	return active, nil
}

func (r *LoanRepository) FindActiveByMedia(_ context.Context, mediaID string) (*circulation.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		loan, ok := r.loans[id]
		if ok && loan.MediaID == mediaID && !loan.Returned() {
			return loan.Clone(), nil
		}
	}
	return nil, circulation.ErrLoanNotFound
}

func (r *LoanRepository) FindAll(_ context.Context) ([]*circulation.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*circulation.Loan, 0, len(r.order))
	for _, id := range r.order {
		if loan, ok := r.loans[id]; ok {
			all = append(all, loan.Clone())
		}
	}
	return all, nil
}

func (r *LoanRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[id]; !ok {
		return circulation.ErrLoanNotFound
	}
	delete(r.loans, id)
	return nil
}
