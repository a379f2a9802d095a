// Package memory holds a process-local UserDirectory for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

type Directory struct {
	mu     sync.RWMutex
	byID   map[string]*domain.User
	byName map[string]string
}

var _ ports.UserDirectory = (*Directory)(nil)

func NewDirectory() *Directory {
	return &Directory{
		byID:   make(map[string]*domain.User),
		byName: make(map[string]string),
	}
}

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (d *Directory) Get(_ context.Context, id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (d *Directory) GetByName(_ context.Context, username string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(d.byID[id]), nil
}

func (d *Directory) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, taken := d.byName[user.Username]; taken {
		return nil, domain.ErrUsernameInUse
	}
	d.byID[user.ID] = clone(user)
	d.byName[user.Username] = user.ID
	return clone(user), nil
}

func (d *Directory) List(_ context.Context) ([]*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*domain.User, 0, len(d.byID))
	for _, u := range d.byID {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (d *Directory) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.AccountRole = role
	return clone(u), nil
}

// Delete removes a user. Account deletion has no HTTP route; this exists for
// operators and tests.
func (d *Directory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	u, ok := d.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(d.byName, u.Username)
	delete(d.byID, id)
	return nil
}

func (d *Directory) Ping(context.Context) error { return nil }
