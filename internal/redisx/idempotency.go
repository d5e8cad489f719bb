package redisx

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers which sale a client-supplied key produced.
type IdempotencyStore struct {
	rdb *redis.Client
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (uint, bool, error) {
	v, err := s.rdb.Get(ctx, fmt.Sprintf(KeyIdemSaleCommit, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency key %q holds %q: %w", key, v, err)
	}
	return uint(id), true, nil
}

// Remember keeps the first sale recorded for key; later writes are ignored.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, saleID uint) error {
	return s.rdb.SetNX(ctx, fmt.Sprintf(KeyIdemSaleCommit, key), strconv.FormatUint(uint64(saleID), 10), TTLIdempotency).Err()
}
