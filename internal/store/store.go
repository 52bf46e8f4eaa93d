// Package store caches raw upstream responses (World Bank, FX) with a TTL.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// Cache is a TTL key/value store for response bodies. A miss is (nil,
// false, nil); expired rows are misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	DeleteExpired(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverNone     = "none"
)

// Open builds and migrates the cache for driver. For sqlite, dsn defaults to
// an in-memory database.
func Open(ctx context.Context, driver, dsn string, ttl time.Duration) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "":
		c, err = NewSQLite(dsn, ttl)
	case DriverPostgres:
		c, err = NewPostgres(ctx, dsn, ttl, nil)
	case DriverMemory:
		c = NewMemory(ttl)
	case DriverNone:
		c = Nop{}
	default:
		return nil, eris.Errorf("store: unknown cache driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Migrate(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Memory is an in-process cache.
type Memory struct {
	mu   sync.Mutex
	ttl  time.Duration
	rows map[string]memRow
	now  func() time.Time
}

type memRow struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, rows: make(map[string]memRow), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[key]
	if !ok || !m.now().Before(r.expiresAt) {
		return nil, false, nil
	}
	return append([]byte(nil), r.value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = memRow{value: append([]byte(nil), value...), expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) DeleteExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	now := m.now()
	for k, r := range m.rows {
		if !now.Before(r.expiresAt) {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Migrate(context.Context) error { return nil }
func (m *Memory) Close() error                  { return nil }

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) DeleteExpired(context.Context) (int, error)        { return 0, nil }
func (Nop) Migrate(context.Context) error                     { return nil }
func (Nop) Close() error                                      { return nil }
