package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLSnapshot 컬렉션 스냅샷 (변경 시 세대 증가로 즉시 무효화)
const TTLSnapshot = 30 * time.Second

// 캐시 키 접두사
const (
	PrefixSnapshot   = "content:snapshot:"
	PrefixGeneration = "content:snapshot:gen:"
)

// ErrMiss is returned when a key is absent or Redis is not configured
var ErrMiss = errors.New("cache miss")

// Service Redis 캐시 서비스 인터페이스
type Service interface {
	// 기본 캐시 연산
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// 컬렉션 스냅샷 캐시. Snapshots are stored per generation: read the
	// generation before querying the store and write back under it, so a
	// snapshot read before an invalidation can never be served after it.
	SnapshotGeneration(ctx context.Context, collection string) (int64, error)
	GetSnapshot(ctx context.Context, collection string, gen int64, dest interface{}) error
	SetSnapshot(ctx context.Context, collection string, gen int64, data interface{}) error
	InvalidateSnapshot(ctx context.Context, collection string) error

	// 유틸리티
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewService 새로운 캐시 서비스 생성. client may be nil; every read then misses.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client, ttl: TTLSnapshot}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping Redis 연결 테스트
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ========================================
// 스냅샷 캐시
// ========================================

// SnapshotKey returns the cache key of one generation of a collection snapshot
func SnapshotKey(collection string, gen int64) string {
	return fmt.Sprintf("%s%s:%d", PrefixSnapshot, collection, gen)
}

// GenerationKey returns the counter bumped on every change to a collection
func GenerationKey(collection string) string {
	return PrefixGeneration + collection
}

func (c *redisCache) SnapshotGeneration(ctx context.Context, collection string) (int64, error) {
	if c.client == nil {
		return 0, ErrMiss
	}
	gen, err := c.client.Get(ctx, GenerationKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisCache) GetSnapshot(ctx context.Context, collection string, gen int64, dest interface{}) error {
	return c.Get(ctx, SnapshotKey(collection, gen), dest)
}

func (c *redisCache) SetSnapshot(ctx context.Context, collection string, gen int64, data interface{}) error {
	return c.Set(ctx, SnapshotKey(collection, gen), data, c.ttl)
}

// InvalidateSnapshot moves the collection to a new generation; entries of
// older generations are never read again and expire with their TTL
func (c *redisCache) InvalidateSnapshot(ctx context.Context, collection string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, GenerationKey(collection)).Err()
}
