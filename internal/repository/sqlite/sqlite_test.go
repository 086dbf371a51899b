package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, path string) *Backend {
	t.Helper()
	b, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBackend_RoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "farm.db")

	b, err := New(path)
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "farmdash.theme", []byte(`"dark"`)))
	require.NoError(t, b.Put(ctx, "farmdash.language", []byte(`"fr"`)))
	require.NoError(t, b.Put(ctx, "farmdash.theme", []byte(`"light"`)))
	require.NoError(t, b.Close())

	reopened := newTestBackend(t, path)
	all, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"light"`, string(all["farmdash.theme"]))
	assert.Equal(t, `"fr"`, string(all["farmdash.language"]))
}

func TestBackend_Delete(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, filepath.Join(t.TempDir(), "farm.db"))

	require.NoError(t, b.Put(ctx, "k", []byte(`1`)))
	require.NoError(t, b.Delete(ctx, "k"))
	require.NoError(t, b.Delete(ctx, "never-written"))

	all, err := b.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNew_OpenFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	_, err := New(filepath.Join(t.TempDir(), "farm.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: open database")
}
