package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/design-loan-quote/internal/config"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each design as a JSON document under
// <prefix>design:<id> and tracks ids in the <prefix>designs set.
type RedisRepository struct {
	client *redis.Client
	prefix string
	now    func() time.Time
	newID  func() string
}

// NewRedisRepository connects to the configured Redis and verifies it responds.
func NewRedisRepository(ctx context.Context, cfg config.StorageConfig) (*RedisRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Address, err)
	}
	return newRedisRepository(client, cfg.Prefix), nil
}

func newRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = constants.DefaultRedisPrefix
	}
	return &RedisRepository{client: client, prefix: prefix, now: now, newID: newID}
}

func (r *RedisRepository) designKey(id string) string {
	return r.prefix + "design:" + id
}

func (r *RedisRepository) indexKey() string {
	return r.prefix + "designs"
}

// List returns every indexed design sorted by name, skipping ids without a document.
func (r *RedisRepository) List(ctx context.Context) ([]Design, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	designs := make([]Design, 0, len(ids))
	if len(ids) == 0 {
		return designs, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.designKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load designs: %w", err)
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Index entry without a document; skip it.
			continue
		}
		d, err := decodeDesign(raw)
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", ids[i], err)
		}
		designs = append(designs, d)
	}
	sortDesigns(designs)
	return designs, nil
}

// Get returns the design with the given id, or ErrNotFound.
func (r *RedisRepository) Get(ctx context.Context, id string) (Design, error) {
	raw, err := r.client.Get(ctx, r.designKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return Design{}, ErrNotFound
	}
	if err != nil {
		return Design{}, fmt.Errorf("failed to get design %s: %w", id, err)
	}
	return decodeDesign(raw)
}

// Save writes the document and its index entry atomically, keeping an existing CreatedAt.
func (r *RedisRepository) Save(ctx context.Context, design Design) (Design, error) {
	var existing *Design
	if design.ID != "" {
		current, err := r.Get(ctx, design.ID)
		switch {
		case err == nil:
			existing = &current
		case !errors.Is(err, ErrNotFound):
			return Design{}, err
		}
	}

	design = prepare(design, existing, r.now(), r.newID)
	payload, err := json.Marshal(design)
	if err != nil {
		return Design{}, fmt.Errorf("failed to encode design %s: %w", design.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.designKey(design.ID), payload, 0)
		pipe.SAdd(ctx, r.indexKey(), design.ID)
		return nil
	})
	if err != nil {
		return Design{}, fmt.Errorf("failed to save design %s: %w", design.ID, err)
	}
	return design, nil
}

// Delete removes the document and its index entry, or returns ErrNotFound.
func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, r.designKey(id))
		pipe.SRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %w", id, err)
	}
	if removed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func decodeDesign(raw string) (Design, error) {
	var d Design
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Design{}, fmt.Errorf("failed to decode design: %w", err)
	}
	return d, nil
}
