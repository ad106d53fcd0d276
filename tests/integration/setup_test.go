package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dimitrije/socketkey-api/internal/services"
	"github.com/dimitrije/socketkey-api/internal/store"
	"github.com/dimitrije/socketkey-api/tests/testutil"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

type backend struct {
	name  string
	setup func(t *testing.T) store.Store
}

var backends = []backend{
	{
		name: store.BackendRedis,
		setup: func(t *testing.T) store.Store {
			s, err := store.OpenRedis(context.Background(), testutil.SetupTestRedis(t), "it:")
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	},
	{
		name: store.BackendPostgres,
		setup: func(t *testing.T) store.Store {
			tdb := testutil.SetupTestDB(t)
			return store.NewPostgresStore(tdb.DB)
		},
	},
}

// forEachBackend runs fn against a real server of every backend that needs one.
func forEachBackend(t *testing.T, defaultTimeout time.Duration, fn func(t *testing.T, svc *services.APIKeyService, s store.Store)) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.setup(t)
			fn(t, services.NewAPIKeyService(s, defaultTimeout, nil), s)
		})
	}
}
