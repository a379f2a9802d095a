package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/snailsoup/auth-service/internal/core/domain"
	"github.com/snailsoup/auth-service/internal/core/ports"
)

// Key layout:
//
//	auth:user:<id>          hash {id, username, password_hash, account_role}
//	auth:username:<name>    string -> id
//	auth:users              set of ids
const (
	keyPrefix   = "auth:"
	usersSetKey = keyPrefix + "users"
)

// insertScript claims the username and writes the record in one step so a
// lost race never leaves a half-written user behind.
var insertScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[2], 'id', ARGV[1], 'username', ARGV[2], 'password_hash', ARGV[3], 'account_role', ARGV[4])
redis.call('SADD', KEYS[3], ARGV[1])
return 1
`)

var updateRoleScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'account_role', ARGV[1])
return 1
`)

// UserDirectory keeps user records in Redis hashes.
type UserDirectory struct {
	client *redis.Client
}

var _ ports.UserDirectory = (*UserDirectory)(nil)

func NewUserDirectory(client *redis.Client) *UserDirectory {
	return &UserDirectory{client: client}
}

func userKey(id string) string       { return keyPrefix + "user:" + id }
func usernameKey(name string) string { return keyPrefix + "username:" + name }

func fromHash(fields map[string]string) *domain.User {
	return &domain.User{
		ID:           fields["id"],
		Username:     fields["username"],
		PasswordHash: fields["password_hash"],
		AccountRole:  domain.Role(fields["account_role"]),
	}
}

func (r *UserDirectory) Get(ctx context.Context, id string) (*domain.User, error) {
	fields, err := r.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return fromHash(fields), nil
}

func (r *UserDirectory) GetByName(ctx context.Context, username string) (*domain.User, error) {
	id, err := r.client.Get(ctx, usernameKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get username: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *UserDirectory) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	keys := []string{usernameKey(user.Username), userKey(user.ID), usersSetKey}
	n, err := insertScript.Run(ctx, r.client, keys,
		user.ID, user.Username, user.PasswordHash, string(user.AccountRole)).Int()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUsernameInUse
	}

	created := *user
	return &created, nil
}

func (r *UserDirectory) List(ctx context.Context) ([]*domain.User, error) {
	ids, err := r.client.SMembers(ctx, usersSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, userKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	users := make([]*domain.User, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		users = append(users, fromHash(fields))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *UserDirectory) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	n, err := updateRoleScript.Run(ctx, r.client, []string{userKey(id)}, string(role)).Int()
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.Get(ctx, id)
}

func (r *UserDirectory) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
