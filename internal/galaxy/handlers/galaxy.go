package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/sector"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

type GalaxyHandler struct {
	service *galaxy.Service
}

func NewGalaxyHandler(service *galaxy.Service) *GalaxyHandler {
	return &GalaxyHandler{service: service}
}

type RenameSystemRequest struct {
	Location spatial.Location `json:"location"`
	Name     string           `json:"name"`
}

func (h *GalaxyHandler) GetGalaxy(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_galaxy")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, h.service.Info())
}

func (h *GalaxyHandler) GetSystems(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_systems")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var systems []system.System
	if r.URL.Query().Has("near") {
		near, err := locationParam(r, "near")
		if err != nil {
			response.Error(w, r, logger, err)
			return
		}
		systems = h.service.Galaxy().SystemsOrdered(near)
	} else {
		systems = h.service.Galaxy().Systems()
	}

	if systems == nil {
		systems = []system.System{}
	}

	response.Success(w, http.StatusOK, systems)
}

func (h *GalaxyHandler) GetSystemAt(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_system_at")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	loc, err := locationParam(r, "loc")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	s, ok := h.service.Galaxy().System(loc)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no system at %s", loc))
		return
	}

	response.Success(w, http.StatusOK, s)
}

func (h *GalaxyHandler) GetNearestSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_nearest_system")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	loc, err := locationParam(r, "loc")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	g := h.service.Galaxy()
	nearest, ok := g.Nearest(loc)
	if !ok {
		response.Error(w, r, logger, errors.NotFound("galaxy has no systems"))
		return
	}

	s, ok := g.System(nearest)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no system at %s", nearest))
		return
	}

	response.Success(w, http.StatusOK, s)
}

func (h *GalaxyHandler) GetReachableSystems(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_reachable_systems")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	loc, err := locationParam(r, "loc")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	maxDistance, err := floatParam(r, "range")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	g := h.service.Galaxy()
	systems := []system.System{}
	for _, l := range g.Reachable(loc, maxDistance) {
		if s, ok := g.System(l); ok {
			systems = append(systems, s)
		}
	}

	response.Success(w, http.StatusOK, systems)
}

func (h *GalaxyHandler) SearchSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "search_system")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		response.Error(w, r, logger, errors.Validation("name is required"))
		return
	}

	s, ok := h.service.Galaxy().SearchName(name)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no system matches %q", name))
		return
	}

	response.Success(w, http.StatusOK, s)
}

func (h *GalaxyHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_sectors")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	sectors := h.service.Galaxy().Sectors()
	if sectors == nil {
		sectors = []sector.Sector{}
	}

	response.Success(w, http.StatusOK, sectors)
}

func (h *GalaxyHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_route")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	from, err := locationParam(r, "from")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	to, err := locationParam(r, "to")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	jumpRange, err := floatParam(r, "range")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	opts := galaxy.RouteOptions{Range: jumpRange}
	if raw := r.URL.Query().Get("max_jumps"); raw != "" {
		opts.MaxJumps, err = strconv.Atoi(raw)
		if err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid max_jumps format", err))
			return
		}
	}

	route, found, err := h.service.Route(ctx, from, to, opts)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if !found {
		response.Error(w, r, logger, errors.NotFound("no route"))
		return
	}

	response.Success(w, http.StatusOK, route)
}

func (h *GalaxyHandler) RenameSystem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "rename_system")

	if r.Method != http.MethodPatch {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req RenameSystemRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	updated, err := h.service.RenameSystem(ctx, req.Location, req.Name)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeInternal {
			response.ErrorWithMessage(w, r, logger, err, "failed to rename system")
			return
		}
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, updated)
}

func locationParam(r *http.Request, name string) (spatial.Location, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return spatial.Location{}, errors.Validationf("%s is required", name)
	}

	loc, err := spatial.ParseLocation(raw)
	if err != nil {
		return spatial.Location{}, errors.WrapValidation("invalid "+name, err)
	}
	return loc, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.Validationf("%s is required", name)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.WrapValidation("invalid "+name+" format", err)
	}
	return v, nil
}
