package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bizzai/go-session/internal/config"
	"github.com/bizzai/go-session/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		kind string
		path string
	}{
		{config.StoreMemory, ""},
		{config.StoreFile, filepath.Join(dir, "session.json")},
		{config.StoreSQLite, filepath.Join(dir, "nested", "session.db")},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			cfg := testConfig("http://localhost")
			cfg.Store = tc.kind
			cfg.StorePath = tc.path

			st, closer, err := openStore(ctx, cfg)
			require.NoError(t, err)
			if closer != nil {
				t.Cleanup(func() { _ = closer() })
			}

			require.NoError(t, st.Save(ctx, "tok"))
			got, ok, err := st.Load(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok", got)
		})
	}
}

func TestOpenStoreFileIsSharedAcrossRuns(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("http://localhost")
	cfg.Store = config.StoreFile
	cfg.StorePath = filepath.Join(t.TempDir(), "session.json")

	first, _, err := openStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "tok"))

	got, ok, err := store.NewFile(cfg.StorePath).Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", got)
}

func TestOpenStoreUnknown(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Store = "etcd"
	_, _, err := openStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewDepsStartsResolved(t *testing.T) {
	d, _ := newTestDeps(t, "http://localhost")
	assert.True(t, d.controller.State().IsResolved())
	assert.False(t, d.controller.IsAuthenticated())
}

func TestActivityLogRecordsSessionEvents(t *testing.T) {
	srv := fakeBackend(t, loginRoute(t, jwt.MapClaims{"userId": "u-42"}))
	cfg := testConfig(srv.URL)
	cfg.ActivityLog = filepath.Join(t.TempDir(), "activity.jsonl")

	d, err := newDeps(context.Background(), cfg, nopLogger{})
	require.NoError(t, err)
	d.prompter = &scriptedPrompter{}
	signIn(t, d)
	require.NoError(t, d.Close())

	raw, err := os.ReadFile(cfg.ActivityLog)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"verb":"auth.signin.success"`)
	assert.Contains(t, string(raw), `"actor_id":"u-42"`)
	assert.NotContains(t, string(raw), "ana@example.com")
}

func TestNewDepsRecoversFromCorruptSessionFile(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Store = config.StoreFile
	cfg.StorePath = filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(cfg.StorePath, []byte("not-a-token"), 0o600))

	d, err := newDeps(context.Background(), cfg, nopLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	assert.Equal(t, "anonymous", d.controller.State().String())
	_, err = os.Stat(cfg.StorePath)
	assert.True(t, os.IsNotExist(err))
}
