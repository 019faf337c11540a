// Package cache keeps short-lived copies of task listings in Redis.
//
// Each owner has a generation counter. Listing keys embed the generation
// read before the store query, and every write for the owner increments it,
// so entries written before a change can never be served after it. Old
// entries simply expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/domain"
	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"
	"github.com/Hamzabaloch08/taskApp-backend/internal/metrics"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "tasks:"

type TaskListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTaskListCache(client *redis.Client, ttl time.Duration) *TaskListCache {
	return &TaskListCache{client: client, ttl: ttl}
}

// Connect creates a client for addr and pings it. It returns an error
// instead of a half-usable client so callers can run without a cache.
func Connect(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func generationKey(owner string) string {
	return keyPrefix + "gen:" + owner
}

func listKey(owner string, gen int64, f domain.TaskFilter) string {
	return keyPrefix + "list:" + owner + ":" + strconv.FormatInt(gen, 10) + ":" + flag(f.Completed) + ":" + flag(f.Important)
}

func flag(b *bool) string {
	switch {
	case b == nil:
		return "-"
	case *b:
		return "1"
	default:
		return "0"
	}
}

// Get looks up a cached listing. The returned key must be passed to Set
// after a miss; it is empty when the cache is unavailable.
func (c *TaskListCache) Get(ctx context.Context, owner string, f domain.TaskFilter) ([]*domain.Task, string, bool) {
	gen, err := c.client.Get(ctx, generationKey(owner)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.fail(ctx, "get generation", err)
		return nil, "", false
	}

	key := listKey(owner, gen, f)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.TaskCacheRequests.WithLabelValues("miss").Inc()
			return nil, key, false
		}
		c.fail(ctx, "get listing", err)
		return nil, "", false
	}

	var tasks []*domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		c.fail(ctx, "decode listing", err)
		return nil, key, false
	}
	metrics.TaskCacheRequests.WithLabelValues("hit").Inc()
	return tasks, key, true
}

// Set stores a listing under a key obtained from Get.
func (c *TaskListCache) Set(ctx context.Context, key string, tasks []*domain.Task) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		c.fail(ctx, "encode listing", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.fail(ctx, "set listing", err)
	}
}

// Invalidate makes every cached listing of owner unreachable.
func (c *TaskListCache) Invalidate(ctx context.Context, owner string) {
	if err := c.client.Incr(ctx, generationKey(owner)).Err(); err != nil {
		c.fail(ctx, "bump generation", err)
	}
}

func (c *TaskListCache) fail(ctx context.Context, op string, err error) {
	metrics.TaskCacheRequests.WithLabelValues("error").Inc()
	logger.WithContext(ctx).Warn("task cache unavailable", "op", op, "error", err)
}
