package galaxy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/shared/database"
	"starmap-server/internal/spatial"
)

func openDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.RunMigrations(ctx))
	return db
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openDB(t), testLogger())

	g, err := newBuilder(t, 3).Build(ctx, SampleLocations(3, 60, 120, 20))
	require.NoError(t, err)

	info := Info{
		ID:          "0190d9c4-0000-7000-8000-000000000001",
		Name:        "Test",
		Seed:        1 << 63,
		CellSize:    g.CellSize(),
		SectorSize:  g.SectorSize(),
		SystemCount: g.Len(),
		SectorCount: len(g.Sectors()),
		CreatedAt:   time.UnixMilli(1700000000123).UTC(),
	}
	require.NoError(t, repo.SaveGalaxy(ctx, info, g))

	id, err := repo.LatestGalaxyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, info.ID, id)

	gotInfo, loaded, err := repo.LoadGalaxy(ctx, id)
	require.NoError(t, err)
	assert.True(t, info.CreatedAt.Equal(gotInfo.CreatedAt))
	gotInfo.CreatedAt = info.CreatedAt
	assert.Equal(t, info, gotInfo)

	assert.Equal(t, g.Systems(), loaded.Systems())
	assert.Equal(t, g.Sectors(), loaded.Sectors())

	from := g.Systems()[0].Location
	assert.Equal(t, g.SystemsOrdered(from), loaded.SystemsOrdered(from))
}

func TestRepositoryLatestGalaxy(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openDB(t), testLogger())

	id, err := repo.LatestGalaxyID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	for i, gid := range []string{"a", "b"} {
		g := mustGalaxy(t, newSystem("Sol System", float64(i), 0, 0))
		require.NoError(t, repo.SaveGalaxy(ctx, Info{ID: gid, CreatedAt: time.UnixMilli(int64(i + 1))}, g))
	}

	id, err = repo.LatestGalaxyID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", id)
}

func TestRepositoryRenameSystem(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openDB(t), testLogger())

	g := mustGalaxy(t, newSystem("Sol System", 0, 0, 0), newSystem("Vega System", 1, 0, 0))
	require.NoError(t, repo.SaveGalaxy(ctx, Info{ID: "g", CreatedAt: time.UnixMilli(1)}, g))

	require.NoError(t, repo.RenameSystem(ctx, "g", spatial.NewLocation(1, 0, 0), "Altair System"))
	assert.Error(t, repo.RenameSystem(ctx, "g", spatial.NewLocation(2, 0, 0), "Nowhere"))

	_, loaded, err := repo.LoadGalaxy(ctx, "g")
	require.NoError(t, err)
	s, ok := loaded.System(spatial.NewLocation(1, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "Altair System", s.Name)
}

func TestRepositoryLoadMissing(t *testing.T) {
	repo := NewRepository(openDB(t), testLogger())

	_, _, err := repo.LoadGalaxy(context.Background(), "missing")
	assert.Error(t, err)
}
