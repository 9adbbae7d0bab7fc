// Package redistore implements sessiongate.IdentityStore on Redis hashes.
//
// One identity is one hash at <prefix>:<username> with the fields username,
// password_hash, and email. Backend failures are wrapped with
// sessiongate.ErrStoreUnavailable so the engine can tell connectivity loss
// apart from a miss.
package redistore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mhallsworth/sessiongate"
)

const (
	fieldUsername     = "username"
	fieldPasswordHash = "password_hash"
	fieldEmail        = "email"
)

// Store is a Redis-backed identity store.
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ sessiongate.IdentityStore = (*Store)(nil)

// New returns a Store writing under prefix, which defaults to "sgid".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "sgid"
	}
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) key(username string) string {
	return s.prefix + ":" + username
}

func (s *Store) FindIdentity(ctx context.Context, username string) (*sessiongate.IdentityRecord, error) {
	vals, err := s.client.HGetAll(ctx, s.key(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	if len(vals) == 0 {
		return nil, sessiongate.ErrUnknownIdentity
	}
	return &sessiongate.IdentityRecord{
		Username:     vals[fieldUsername],
		PasswordHash: vals[fieldPasswordHash],
		Email:        vals[fieldEmail],
	}, nil
}

func (s *Store) StoreIdentity(ctx context.Context, rec sessiongate.IdentityRecord) error {
	key := s.key(rec.Username)

	// HSETNX on the username field is the conflict check; the remaining
	// fields follow only for the winner.
	created, err := s.client.HSetNX(ctx, key, fieldUsername, rec.Username).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	if !created {
		return sessiongate.ErrDuplicateIdentity
	}

	err = s.client.HSet(ctx, key,
		fieldPasswordHash, rec.PasswordHash,
		fieldEmail, rec.Email,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, username, newHash string) error {
	key := s.key(username)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	if exists == 0 {
		return sessiongate.ErrUnknownIdentity
	}

	if err := s.client.HSet(ctx, key, fieldPasswordHash, newHash).Err(); err != nil {
		return fmt.Errorf("%w: %v", sessiongate.ErrStoreUnavailable, err)
	}
	return nil
}
