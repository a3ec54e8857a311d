package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swipefeed/swipefeed/internal/clock"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/datasources/filestore"
	"github.com/swipefeed/swipefeed/internal/datasources/sqlstore"
	"github.com/swipefeed/swipefeed/internal/domain"
)

func TestDuelSession_ProgressSurvivesRestart(t *testing.T) {
	cases := []struct {
		name  string
		store func(t *testing.T) datasources.DuelProgressStore
	}{
		{
			name: "file",
			store: func(t *testing.T) datasources.DuelProgressStore {
				store, err := filestore.New(t.TempDir())
				require.NoError(t, err)
				return store
			},
		},
		{
			name: "sqlite",
			store: func(t *testing.T) datasources.DuelProgressStore {
				ctx := context.Background()
				db, err := sqlstore.Connect(ctx, sqlstore.DriverSQLite, ":memory:")
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })

				flavor, err := sqlstore.FlavorFor(sqlstore.DriverSQLite)
				require.NoError(t, err)
				repo := sqlstore.New(db, flavor)
				require.NoError(t, repo.Migrate(ctx))
				return repo
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testContext()
			store := tc.store(t)
			// Wall clocks carry sub-millisecond digits the stores cannot keep.
			clk := clock.Fake(time.Date(2025, 5, 10, 9, 0, 0, 123456789, time.Local))

			before := NewDuelSession("install-1", store, domain.DefaultDuelPolicy(), clk)
			require.NoError(t, before.Start(ctx))
			for i := 0; i < domain.DefaultDuelQuota; i++ {
				require.NoError(t, before.RegisterVote(ctx))
			}
			require.Equal(t, domain.DuelGateCooling, before.State().Gate)

			after := NewDuelSession("install-1", store, domain.DefaultDuelPolicy(), clk)
			require.NoError(t, after.Start(ctx))

			assert.Equal(t, before.Progress(), after.Progress())
			assert.Equal(t, before.State(), after.State())
		})
	}
}
