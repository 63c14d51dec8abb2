package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apex-tracker/internal/core/kv"
	"apex-tracker/internal/features/accounts/domain"
	"apex-tracker/internal/features/accounts/ports"
)

// Storage keys.
const (
	UsersKey = "apex_users"
	AdminKey = "apex_admin_credentials"
)

// KVAccountRepository implements ports.AccountRepository on top of a kv.Store.
type KVAccountRepository struct {
	store kv.Store
}

// NewKVAccountRepository creates a new KVAccountRepository.
func NewKVAccountRepository(store kv.Store) *KVAccountRepository {
	return &KVAccountRepository{store: store}
}

// LoadUsers reads the users collection. A missing key yields ports.ErrNotFound.
func (r *KVAccountRepository) LoadUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.get(ctx, UsersKey, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// SaveUsers writes the full users collection.
func (r *KVAccountRepository) SaveUsers(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	return r.set(ctx, UsersKey, users)
}

// LoadAdmin reads the admin credential record. A missing key yields
// ports.ErrNotFound.
func (r *KVAccountRepository) LoadAdmin(ctx context.Context) (*domain.AdminCredential, error) {
	var cred domain.AdminCredential
	if err := r.get(ctx, AdminKey, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// SaveAdmin overwrites the admin credential record.
func (r *KVAccountRepository) SaveAdmin(ctx context.Context, cred domain.AdminCredential) error {
	return r.set(ctx, AdminKey, cred)
}

func (r *KVAccountRepository) get(ctx context.Context, key string, dst any) error {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", key, ports.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func (r *KVAccountRepository) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
