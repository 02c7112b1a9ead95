package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/respvars/packages/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func extract(t *testing.T, body string) *capture.Values {
	t.Helper()
	reg, err := capture.Compile([]capture.Definition{
		{Name: "state", Regex: `status=(\w+)`},
		{Name: "id", Regex: `id=(\d+)`},
		{Name: "empty", Regex: `end=(\w*)`},
	})
	require.NoError(t, err)
	return capture.ExtractAll(reg, body)
}

func TestStore_RecordAndLatest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	pass := NewPass(extract(t, "status=ok status=fail end="), "req-1", 200)
	require.NoError(t, store.Record(ctx, pass))

	got, err := store.Latest(ctx)
	require.NoError(t, err)

	assert.Equal(t, pass.ID, got.ID)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, 200, got.StatusCode)
	assert.WithinDuration(t, pass.RecordedAt, got.RecordedAt, time.Millisecond)
	assert.Equal(t, []Value{
		{Name: "empty", Value: "", Found: true},
		{Name: "id", Value: "", Found: false},
		{Name: "state", Value: "ok,fail", Found: true},
	}, got.Values)

	v, ok := got.Get("state")
	assert.True(t, ok)
	assert.Equal(t, "ok,fail", v)

	_, ok = got.Get("id")
	assert.False(t, ok, "absent values must stay absent after a round trip")
}

func TestStore_LatestEmpty(t *testing.T) {
	store := openStore(t)

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	bodies := []string{"id=1", "id=2", "id=3"}
	for _, body := range bodies {
		require.NoError(t, store.Record(ctx, NewPass(extract(t, body), "", 200)))
	}

	passes, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, passes, 2)

	first, _ := passes[0].Get("id")
	second, _ := passes[1].Get("id")
	assert.Equal(t, "3", first)
	assert.Equal(t, "2", second)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_DuplicatePassRejected(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	pass := NewPass(extract(t, "id=1"), "", 200)
	require.NoError(t, store.Record(ctx, pass))
	assert.Error(t, store.Record(ctx, pass))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOpen_Prefixes(t *testing.T) {
	dir := t.TempDir()

	for i, prefix := range []string{"sqlite://", "sqlite:"} {
		store, err := Open(prefix + filepath.Join(dir, fmt.Sprintf("h%d.db", i)))
		require.NoError(t, err)
		require.NoError(t, store.Close())
	}

	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, NewPass(extract(t, "id=9"), "", 201)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 201, got.StatusCode)
}

func TestOpen_PathWithQuery(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name string
		path string
	}{
		{"plain", filepath.Join(dir, "plain.db")},
		{"with options", filepath.Join(dir, "opts.db") + "?_busy_timeout=5000"},
		{"uri with options", "file:" + filepath.Join(dir, "uri.db") + "?cache=private&_busy_timeout=5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.path)
			require.NoError(t, err)
			defer store.Close()

			var fk int
			require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
			assert.Equal(t, 1, fk)

			require.NoError(t, store.Record(ctx, NewPass(extract(t, "id=1"), "", 200)))
		})
	}
}

func TestWithPragma(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on", withPragma("a.db", "_foreign_keys=on"))
	assert.Equal(t, "a.db?mode=rwc&_foreign_keys=on", withPragma("a.db?mode=rwc", "_foreign_keys=on"))
}
