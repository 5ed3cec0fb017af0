package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against s.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	key := "test_" + t.Name()
	t.Cleanup(func() { _ = s.Remove(context.Background(), key) })

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Set(ctx, key, []byte(`{"id":"first"}`)))
	v, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"id":"first"}`, string(v))

	// Last write wins.
	require.NoError(t, s.Set(ctx, key, []byte(`{"id":"second"}`)))
	v, _, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"second"}`, string(v))

	require.NoError(t, s.Remove(ctx, key))
	_, found, err = s.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, found)

	// Removing again is a no-op.
	require.NoError(t, s.Remove(ctx, key))
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, SlotKey, buf))
	buf[0] = 'z'

	v, _, err := m.Get(ctx, SlotKey)
	require.NoError(t, err)
	require.Equal(t, "abc", string(v))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Set(ctx, SlotKey, []byte{byte(i)})
			_, _, _ = m.Get(ctx, SlotKey)
		}(i)
	}
	wg.Wait()

	_, found, err := m.Get(ctx, SlotKey)
	require.NoError(t, err)
	require.True(t, found)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestOpenSQLite_CreatesFileWithWAL(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "nested", ".bridgeai")

	s, err := OpenSQLite(baseDir)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(baseDir, DBFile))
	require.NoError(t, err)

	var journalMode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode;").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	version, err := GetUserVersion(s.DB())
	require.NoError(t, err)
	require.Equal(t, CurrentSchemaVersion, version)
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, SlotKey, []byte("kept")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(dir)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, SlotKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "kept", string(v))
}

func TestOpenSQLite_ConfigurePool(t *testing.T) {
	s, err := OpenSQLite(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	s.ConfigurePool(1, 1)
	require.Equal(t, 1, s.DB().Stats().MaxOpenConnections)
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{BaseDir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Backend: BackendRemote, DaemonURL: "http://127.0.0.1:7878"})
	require.NoError(t, err)
	require.IsType(t, &Remote{}, s)

	_, err = Open(ctx, Options{Backend: BackendRemote, DaemonURL: "not a url"})
	require.Error(t, err)

	_, err = Open(ctx, Options{Backend: "etcd"})
	require.Error(t, err)
}

func TestRedis(t *testing.T) {
	url := os.Getenv("BRIDGE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BRIDGE_TEST_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := OpenRedis(ctx, url, time.Minute)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("BRIDGE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BRIDGE_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)
}
