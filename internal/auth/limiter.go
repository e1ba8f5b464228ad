package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter throttles login attempts per key (usually the client IP).
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// DefaultAttemptsPerMinute is used when no limit is configured.
const DefaultAttemptsPerMinute = 5

// MemoryLimiter is a per-key token bucket kept in process memory.
type MemoryLimiter struct {
	mu        sync.Mutex
	perMinute int
	buckets   map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// staleAfter is how long an idle bucket is kept before it is swept.
const staleAfter = 10 * time.Minute

// NewMemoryLimiter allows perMinute attempts per key, refilled evenly.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute < 1 {
		perMinute = DefaultAttemptsPerMinute
	}
	return &MemoryLimiter{perMinute: perMinute, buckets: make(map[string]*bucket)}
}

// Allow reports whether key may attempt another login now.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.sweep(now)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleAfter {
			delete(l.buckets, key)
		}
	}
}

// RedisLimiter counts attempts in fixed one-minute windows stored in Redis,
// so every server instance shares the same budget.
type RedisLimiter struct {
	client    *redis.Client
	perMinute int
	prefix    string
}

// NewRedisLimiter allows perMinute attempts per key and window.
func NewRedisLimiter(client *redis.Client, perMinute int) *RedisLimiter {
	if perMinute < 1 {
		perMinute = DefaultAttemptsPerMinute
	}
	return &RedisLimiter{client: client, perMinute: perMinute, prefix: "watchdesk:login"}
}

// Allow reports whether key may attempt another login in the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := time.Now().Unix() / 60
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, window)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("counting login attempt: %w", err)
	}
	return count.Val() <= int64(l.perMinute), nil
}

// ClientKey returns the limiter key for a request: the remote IP without the
// port.
func ClientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 && !strings.Contains(host[:idx], ":") {
		return host[:idx]
	}
	return host
}
