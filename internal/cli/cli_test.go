package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/core/auth"
	"storefront/internal/core/kv"
	"storefront/internal/domain"
	"storefront/internal/store"
)

// run executes one storectl invocation against mem.
func run(t *testing.T, mem kv.Storage, seed store.SeedSource, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{Open: func(context.Context, *RootOptions) (*app.App, error) {
		st := store.New(store.Options{Storage: nopClose{mem}, Seed: seed})
		return app.Assemble(st, store.NewSessions(mem, ""), auth.PlainHasher{}, zap.NewNop()), nil
	}}
	cmd := newRoot(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// nopClose keeps the shared storage usable across invocations.
type nopClose struct{ kv.Storage }

func (nopClose) Close() error { return nil }

func seedOf(d *domain.Document) store.SeedSource {
	return store.SeedFunc(func(context.Context) (*domain.Document, error) { return d.Clone(), nil })
}

func TestInitStatsExport(t *testing.T) {
	mem := kv.NewMemory()
	d := domain.NewDocument()
	d.Users = []domain.User{{ID: "s1", Role: domain.RoleSeller}, {ID: "b1", Role: domain.RoleBuyer}}
	d.Products = []domain.Product{{ID: "p1"}}

	out, err := run(t, mem, seedOf(d), "init")
	require.NoError(t, err)
	var s Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, Stats{State: "READY", Users: 2, Sellers: 1, Products: 1}, s)

	out, err = run(t, mem, nil, "stats")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 1, s.Products)

	path := filepath.Join(t.TempDir(), "dump.json")
	_, err = run(t, mem, nil, "export", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var exported domain.Document
	require.NoError(t, json.Unmarshal(b, &exported))
	assert.Len(t, exported.Users, 2)
}

func TestStats_EmptyStore(t *testing.T) {
	out, err := run(t, kv.NewMemory(), nil, "stats")
	require.NoError(t, err)
	var s Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "UNINITIALIZED", s.State)
	assert.Zero(t, s.Users)
}

func TestExport_NothingStored(t *testing.T) {
	_, err := run(t, kv.NewMemory(), nil, "export")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestImportThenReset(t *testing.T) {
	mem := kv.NewMemory()
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products":[{"id":"p9","price":"1"}]}`), 0o644))

	_, err := run(t, mem, nil, "import", path)
	require.NoError(t, err)

	out, err := run(t, mem, nil, "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"p9"`)
	assert.Contains(t, out, `"reviews": []`)

	_, err = run(t, mem, nil, "reset")
	assert.Error(t, err)

	require.NoError(t, kv.Overwrite(context.Background(), mem, store.DefaultSessionKey, domain.Session{UserID: "u"}))
	out, err = run(t, mem, nil, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "store reset")

	_, err = mem.Get(context.Background(), store.DefaultDocumentKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	_, err = mem.Get(context.Background(), store.DefaultSessionKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestImport_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	_, err := run(t, kv.NewMemory(), nil, "import", path)
	assert.Error(t, err)
}
