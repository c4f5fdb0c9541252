package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/planet"
	"starmap-server/internal/sector"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

func newTestHandler(t *testing.T) *GalaxyHandler {
	t.Helper()

	var systems []system.System
	for i, name := range []string{"Sol System", "Vega System", "Altair System", "Deneb System"} {
		systems = append(systems, system.System{
			Location: spatial.NewLocation(float64(i), 0, 0),
			Name:     name,
			Planets:  []planet.Planet{},
		})
	}

	g, err := galaxy.New(systems, nil, galaxy.Options{CellSize: 4, SectorSize: 2})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := galaxy.NewService(nil, galaxy.NewMemoryCache(16), galaxy.Settings{MaxExpansions: 1000}, logger)
	svc.Adopt(galaxy.Info{ID: "test", Name: "Test", SystemCount: len(systems)}, g)

	return NewGalaxyHandler(svc)
}

func serve(h http.HandlerFunc, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestGetGalaxy(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetGalaxy, http.MethodGet, "/api/galaxy", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[galaxy.Info](t, rec)
	assert.Equal(t, "test", info.ID)
	assert.Equal(t, 4, info.SystemCount)

	rec = serve(h.GetGalaxy, http.MethodPost, "/api/galaxy", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGetSystems(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetSystems, http.MethodGet, "/api/systems", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	systems := decode[[]system.System](t, rec)
	require.Len(t, systems, 4)
	assert.Equal(t, "Sol System", systems[0].Name)

	rec = serve(h.GetSystems, http.MethodGet, "/api/systems?near=3,0,0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	systems = decode[[]system.System](t, rec)
	assert.Equal(t, "Deneb System", systems[0].Name)
	assert.Equal(t, "Sol System", systems[3].Name)

	rec = serve(h.GetSystems, http.MethodGet, "/api/systems?near=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSystemAt(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetSystemAt, http.MethodGet, "/api/systems/at?loc=1,0,0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vega System", decode[system.System](t, rec).Name)

	rec = serve(h.GetSystemAt, http.MethodGet, "/api/systems/at?loc=1.5,0,0", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	errResp := decode[response.ErrorResponse](t, rec)
	assert.Equal(t, "not_found", errResp.Error)

	rec = serve(h.GetSystemAt, http.MethodGet, "/api/systems/at", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.GetSystemAt, http.MethodGet, "/api/systems/at?loc=1,0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNearestSystem(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetNearestSystem, http.MethodGet, "/api/systems/nearest?loc=2.2,1,0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Altair System", decode[system.System](t, rec).Name)
}

func TestGetReachableSystems(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetReachableSystems, http.MethodGet, "/api/systems/reachable?loc=0,0,0&range=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	for _, s := range decode[[]system.System](t, rec) {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"Sol System", "Vega System"}, names)

	rec = serve(h.GetReachableSystems, http.MethodGet, "/api/systems/reachable?loc=50,0,0&range=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = serve(h.GetReachableSystems, http.MethodGet, "/api/systems/reachable?loc=0,0,0&range=far", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchSystem(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.SearchSystem, http.MethodGet, "/api/systems/search?name=VEGA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vega System", decode[system.System](t, rec).Name)

	rec = serve(h.SearchSystem, http.MethodGet, "/api/systems/search?name=rigel", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h.SearchSystem, http.MethodGet, "/api/systems/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSectors(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetSectors, http.MethodGet, "/api/sectors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sectors := decode[[]sector.Sector](t, rec)
	require.Len(t, sectors, 2)
	assert.Len(t, sectors[0].Systems, 2)
}

func TestGetRoute(t *testing.T) {
	h := newTestHandler(t)

	rec := serve(h.GetRoute, http.MethodGet, "/api/route?from=0,0,0&to=3,0,0&range=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	route := decode[galaxy.Route](t, rec)
	assert.Equal(t, 3, route.Jumps)
	assert.InDelta(t, 3.0, route.Cost, 1e-12)
	assert.Len(t, route.Path, 4)

	rec = serve(h.GetRoute, http.MethodGet, "/api/route?from=0,0,0&to=3,0,0&range=1&max_jumps=2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no route", decode[response.ErrorResponse](t, rec).Message)

	rec = serve(h.GetRoute, http.MethodGet, "/api/route?from=0,0,0&to=3,0,0&range=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.GetRoute, http.MethodGet, "/api/route?from=0,0,0&to=3,0,0&range=1&max_jumps=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.GetRoute, http.MethodGet, "/api/route?to=3,0,0&range=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenameSystem(t *testing.T) {
	h := newTestHandler(t)

	body := `{"location":{"x":1,"y":0,"z":0},"name":"Rigel System"}`
	rec := serve(h.RenameSystem, http.MethodPatch, "/api/admin/systems/name", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rigel System", decode[system.System](t, rec).Name)

	rec = serve(h.SearchSystem, http.MethodGet, "/api/systems/search?name=rigel", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body = `{"location":{"x":9,"y":0,"z":0},"name":"Nowhere"}`
	rec = serve(h.RenameSystem, http.MethodPatch, "/api/admin/systems/name", strings.NewReader(body))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h.RenameSystem, http.MethodPatch, "/api/admin/systems/name", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.RenameSystem, http.MethodGet, "/api/admin/systems/name", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRenameSystemHidesStorageErrors(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(ctx))

	g, err := galaxy.New([]system.System{{
		Location: spatial.NewLocation(0, 0, 0),
		Name:     "Sol System",
		Planets:  []planet.Planet{},
	}}, nil, galaxy.Options{CellSize: 4, SectorSize: 2})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := galaxy.NewService(galaxy.NewRepository(db, logger), nil, galaxy.Settings{}, logger)
	svc.Adopt(galaxy.Info{ID: "test", Name: "Test", SystemCount: 1}, g)
	h := NewGalaxyHandler(svc)

	require.NoError(t, db.Close())

	body := `{"location":{"x":0,"y":0,"z":0},"name":"Rigel System"}`
	rec := serve(h.RenameSystem, http.MethodPatch, "/api/admin/systems/name", strings.NewReader(body))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[response.ErrorResponse](t, rec)
	assert.Equal(t, "failed to rename system", resp.Message)

	sys, ok := svc.Galaxy().System(spatial.NewLocation(0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "Sol System", sys.Name)
}
