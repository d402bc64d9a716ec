package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/recipedex/internal/db"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestOpen_InMemory(t *testing.T) {
	s := openMemory(t)
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.WaitForReady(context.Background(), time.Second))
}

func TestOpen_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")
	s, err := Open(Config{Path: dir}, nil)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(Config{}, nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	_, err = Open(Config{Path: file}, nil)
	assert.Error(t, err)
}

func TestPing_AfterClose(t *testing.T) {
	s, err := Open(Config{InMemory: true}, nil)
	require.NoError(t, err)
	s.Close()

	err = s.Ping(context.Background())
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpPing, dbErr.Op)
}

func TestHash_SetMergeGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.HSet(ctx, "recipe:1", map[string]string{"name": "Beef Stew", "category": "Comfort Food"}))
	require.NoError(t, s.HSet(ctx, "recipe:1", map[string]string{"category": "Stews", "servings": "4"}))

	m, err := s.HGetAll(ctx, "recipe:1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Beef Stew", "category": "Stews", "servings": "4"}, m)
}

func TestHGetAll_MissingIsEmpty(t *testing.T) {
	s := openMemory(t)

	m, err := s.HGetAll(context.Background(), "recipe:404")
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestHGetAllMulti_PreservesOrder(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.HSet(ctx, "recipe:1", map[string]string{"name": "Soup"}))
	require.NoError(t, s.HSet(ctx, "recipe:2", map[string]string{"name": "Salad"}))

	got, err := s.HGetAllMulti(ctx, []string{"recipe:2", "recipe:9", "recipe:1"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Salad", got[0]["name"])
	assert.Empty(t, got[1])
	assert.Equal(t, "Soup", got[2]["name"])

	none, err := s.HGetAllMulti(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestHGetAll_WrongValueIsDBError(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "recipe:1", []byte("not a hash")))

	_, err := s.HGetAll(ctx, "recipe:1")
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpHGetAll, dbErr.Op)
}

func TestDelAndExists(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.HSet(ctx, "recipe:3", map[string]string{"name": "Chili"}))

	ok, err := s.Exists(ctx, "recipe:3")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Del(ctx, "recipe:3"))
	require.NoError(t, s.Del(ctx, "recipe:3"))

	ok, err = s.Exists(ctx, "recipe:3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan_Pattern(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	for _, k := range []string{"rx:recipe:1", "rx:recipe:2", "rx:recipe:seq", "rx:meta", "other:recipe:1"} {
		require.NoError(t, s.Set(ctx, k, []byte("1")))
	}

	keys, err := s.Scan(ctx, "rx:recipe:*")
	require.NoError(t, err)
	slices.Sort(keys)
	assert.Equal(t, []string{"rx:recipe:1", "rx:recipe:2", "rx:recipe:seq"}, keys)

	keys, err = s.Scan(ctx, "rx:recipe:?")
	require.NoError(t, err)
	slices.Sort(keys)
	assert.Equal(t, []string{"rx:recipe:1", "rx:recipe:2"}, keys)

	keys, err = s.Scan(ctx, "rx:meta")
	require.NoError(t, err)
	assert.Equal(t, []string{"rx:meta"}, keys)
}

func TestScan_BadPattern(t *testing.T) {
	s := openMemory(t)
	_, err := s.Scan(context.Background(), "recipe:[")
	var dbErr *db.Error
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, db.OpScan, dbErr.Op)
}

func TestGetSet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "meta:built_at")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "meta:built_at", []byte("2026-01-02")))
	got, err := s.Get(ctx, "meta:built_at")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", string(got))
}

func TestIncr(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "recipe:seq")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	raw, err := s.Get(ctx, "recipe:seq")
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw))
}

func TestIncr_NotInteger(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "recipe:seq", []byte("twelve")))

	_, err := s.Incr(ctx, "recipe:seq")
	assert.ErrorIs(t, err, db.ErrNotInteger)
}

func TestIncr_ConcurrentCallersGetDistinctValues(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	const workers = 16
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got []int64
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.Incr(ctx, "recipe:seq")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		}()
	}
	wg.Wait()

	slices.Sort(got)
	want := make([]int64, workers)
	for i := range want {
		want[i] = int64(i + 1)
	}
	assert.Equal(t, want, got)
}

func TestCanceledContext(t *testing.T) {
	s := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.HSet(ctx, "recipe:1", map[string]string{"name": "x"})
	assert.True(t, errors.Is(err, context.Canceled))
	_, err = s.HGetAll(ctx, "recipe:1")
	assert.True(t, errors.Is(err, context.Canceled))
}
