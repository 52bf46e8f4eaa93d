package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	for _, driver := range []string{"sqlite", "", "memory", "none"} {
		c, err := Open(ctx, driver, "", time.Hour)
		require.NoError(t, err, driver)
		require.NoError(t, c.Close())
	}

	_, err := Open(ctx, "redis", "", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown cache driver "redis"`)
}

func TestSQLite_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLite("", time.Hour)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, ok, err := s.Get(ctx, "worldbank:/country/JPN")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "worldbank:/country/JPN", []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "worldbank:/country/JPN", []byte(`[2]`)))

	v, ok, err := s.Get(ctx, "worldbank:/country/JPN")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[2]`, string(v))

	now = now.Add(2 * time.Hour)
	_, ok, err = s.Get(ctx, "worldbank:/country/JPN")
	require.NoError(t, err)
	assert.False(t, ok, "expired rows are misses")

	n, err := s.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemory_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	buf := []byte("rates")
	require.NoError(t, m.Set(ctx, "fx:latest:USD", buf))
	buf[0] = 'X'

	v, ok, err := m.Get(ctx, "fx:latest:USD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "rates", string(v), "stored value is a copy")

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "fx:latest:USD")
	assert.False(t, ok)

	n, err := m.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock, ttl: time.Hour}, mock
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT value FROM response_cache WHERE key = \$1`).
		WithArgs("fx:latest:USD").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"rates":{}}`)))

	v, ok, err := s.Get(context.Background(), "fx:latest:USD")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"rates":{}}`, string(v))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT value FROM response_cache`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	v, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs("worldbank:/country", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Set(context.Background(), "worldbank:/country", []byte(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteExpired(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM response_cache WHERE expires_at <= now\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := s.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS response_cache`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
