// Package cache holds the Redis-backed session store and structure cache.
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

const authEventsChannel = "auth-events"

// RedisSessionStore tracks revoked tokens and relays auth-state changes
// over a pub/sub channel.
type RedisSessionStore struct {
	client *redis.Client
}

var _ ports.SessionStore = (*RedisSessionStore)(nil)

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) BlacklistToken(ctx context.Context, tokenHash string, ttl time.Duration) error {
	return s.client.Set(ctx, "blacklist:"+tokenHash, "1", ttl).Err()
}

func (s *RedisSessionStore) IsBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.client.Exists(ctx, "blacklist:"+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessionStore) PublishAuthEvent(ctx context.Context, evt domain.AuthEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, authEventsChannel, body).Err()
}

func (s *RedisSessionStore) SubscribeAuthEvents(ctx context.Context) (<-chan domain.AuthEvent, error) {
	sub := s.client.Subscribe(ctx, authEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan domain.AuthEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt domain.AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("session store: bad auth event payload: %v", err)
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
