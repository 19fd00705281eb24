// internal/cache/cache.go
package cache

import (
	"sync"
	"time"
)

// DefaultTTL là thời gian sống mặc định của một entry.
const DefaultTTL = 5 * time.Minute

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache là bộ nhớ đệm key/value có hạn sử dụng (TTL).
// Không giới hạn dung lượng; entry chỉ bị xoá khi đọc phải entry đã hết hạn hoặc khi Clear.
type Cache[V any] struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]entry[V]
}

type Option[V any] func(*Cache[V])

// WithClock thay đồng hồ mặc định (time.Now), dùng trong test.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New tạo cache với TTL cho trước. ttl <= 0 sẽ dùng DefaultTTL.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get trả về giá trị nếu entry còn hạn. Entry quá hạn bị xoá và coi như không có.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.now().Sub(e.storedAt) < c.ttl {
		return e.value, true
	}
	delete(c.entries, key)

	var zero V
	return zero, false
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len trả về số entry đang giữ (kể cả entry đã quá hạn nhưng chưa bị đọc lại).
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL trả về thời gian sống đã cấu hình.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}
