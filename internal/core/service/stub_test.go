package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/infrastructure/security"
)

// stubDirectory is an in-memory UserDirectory that counts calls and records
// the order of operations into a shared trace.
type stubDirectory struct {
	mu    sync.Mutex
	users map[string]*domain.User
	trace *[]string

	getCalls    int
	getErr      error
	getByErr    error
	insertErr   error
	insertCalls int
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{users: make(map[string]*domain.User), trace: &[]string{}}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (d *stubDirectory) record(op string) {
	*d.trace = append(*d.trace, op)
}

func (d *stubDirectory) Get(_ context.Context, id string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.getCalls++
	d.record("get")
	if d.getErr != nil {
		return nil, d.getErr
	}
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (d *stubDirectory) GetByName(_ context.Context, username string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("get_by_name")
	if d.getByErr != nil {
		return nil, d.getByErr
	}
	for _, u := range d.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *stubDirectory) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertCalls++
	d.record("insert")
	if d.insertErr != nil {
		return nil, d.insertErr
	}
	d.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (d *stubDirectory) List(_ context.Context) ([]*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (d *stubDirectory) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.AccountRole = role
	return cloneUser(u), nil
}

func (d *stubDirectory) Ping(context.Context) error { return nil }

// delete simulates an account removed after a token was issued.
func (d *stubDirectory) delete(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, id)
}

// tracingHasher wraps a real hasher and appends to the directory's trace.
type tracingHasher struct {
	inner *security.Argon2Hasher
	trace *[]string
}

func (h *tracingHasher) Hash(p string) (string, error) {
	*h.trace = append(*h.trace, "hash")
	return h.inner.Hash(p)
}

func (h *tracingHasher) Verify(p, encoded string) (bool, error) {
	*h.trace = append(*h.trace, "verify")
	return h.inner.Verify(p, encoded)
}

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	dir    *stubDirectory
	hasher *tracingHasher
	codec  *security.JWTCodec
	clock  *fakeClock
	svc    *AuthService
}

func newFixture(lifetime time.Duration) *fixture {
	dir := newStubDirectory()
	hasher := &tracingHasher{
		inner: security.NewArgon2Hasher(security.Argon2Params{Memory: 64, Time: 1, Threads: 1}),
		trace: dir.trace,
	}
	codec := security.NewJWTCodec([]byte("secret"))
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := NewAuthService(dir, hasher, codec, AuthSettings{TokenLifetime: lifetime, Clock: clock.Now}, zerolog.Nop())
	return &fixture{dir: dir, hasher: hasher, codec: codec, clock: clock, svc: svc}
}
