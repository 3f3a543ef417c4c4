package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

// RedisStructureCache memoizes structure directory rows. Cache failures
// never fail a lookup; the caller just falls through to a fresh query.
type RedisStructureCache struct {
	client *redis.Client
}

var _ ports.StructureCache = (*RedisStructureCache)(nil)

func NewRedisStructureCache(client *redis.Client) *RedisStructureCache {
	return &RedisStructureCache{client: client}
}

func structureKey(subProgram string) string {
	return "structure:" + subProgram
}

func (c *RedisStructureCache) Get(ctx context.Context, subProgram string) (*domain.ProgramStructure, bool) {
	body, err := c.client.Get(ctx, structureKey(subProgram)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("structure cache: get %q: %v", subProgram, err)
		}
		return nil, false
	}
	var s domain.ProgramStructure
	if err := json.Unmarshal(body, &s); err != nil {
		log.Printf("structure cache: bad entry for %q: %v", subProgram, err)
		return nil, false
	}
	return &s, true
}

func (c *RedisStructureCache) Set(ctx context.Context, s domain.ProgramStructure, ttl time.Duration) {
	body, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, structureKey(s.SubProgram), body, ttl).Err(); err != nil {
		log.Printf("structure cache: set %q: %v", s.SubProgram, err)
	}
}

func (c *RedisStructureCache) Invalidate(ctx context.Context, subProgram string) {
	if err := c.client.Del(ctx, structureKey(subProgram)).Err(); err != nil {
		log.Printf("structure cache: invalidate %q: %v", subProgram, err)
	}
}
