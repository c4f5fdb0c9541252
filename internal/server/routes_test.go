package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/auth"
	"starmap-server/internal/galaxy"
	"starmap-server/internal/planet"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	g, err := galaxy.New([]system.System{
		{Location: spatial.NewLocation(0, 0, 0), Name: "Sol System", Planets: []planet.Planet{}},
		{Location: spatial.NewLocation(1, 0, 0), Name: "Vega System", Planets: []planet.Planet{}},
	}, nil, galaxy.Options{CellSize: 4})
	require.NoError(t, err)

	svc := galaxy.NewService(nil, nil, galaxy.Settings{}, logger)
	svc.Adopt(galaxy.Info{ID: "test"}, g)

	return NewRoutes(nil, svc, testSecret, logger).Setup()
}

func TestRoutesPublic(t *testing.T) {
	mux := newMux(t)

	for _, target := range []string{
		"/api/server/health",
		"/api/galaxy",
		"/api/systems",
		"/api/systems/at?loc=0,0,0",
		"/api/systems/nearest?loc=5,0,0",
		"/api/systems/reachable?loc=0,0,0&range=2",
		"/api/systems/search?name=vega",
		"/api/sectors",
		"/api/route?from=0,0,0&to=1,0,0&range=1",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestRoutesAdmin(t *testing.T) {
	mux := newMux(t)
	body := `{"location":{"x":0,"y":0,"z":0},"name":"Home System"}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/admin/systems/name", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateJWT("ops", auth.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/systems/name", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
