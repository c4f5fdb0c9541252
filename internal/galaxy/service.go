package galaxy

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"starmap-server/internal/namegen"
	"starmap-server/internal/planet"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/spatial"
	"starmap-server/internal/star"
	"starmap-server/internal/system"
)

const maxNameLength = 255

type Settings struct {
	Name          string
	Seed          uint64
	SystemCount   int
	Radius        float64
	Thickness     float64
	CellSize      float64
	SectorSize    float64
	Regenerate    bool
	RouteCacheTTL time.Duration
	MaxExpansions int
}

// SettingsFromConfig maps the galaxy section of the configuration.
func SettingsFromConfig(cfg config.GalaxyConfig) Settings {
	return Settings{
		Name:          cfg.Name,
		Seed:          cfg.Seed,
		SystemCount:   cfg.SystemCount,
		Radius:        cfg.Radius,
		Thickness:     cfg.Thickness,
		CellSize:      cfg.CellSize,
		SectorSize:    cfg.SectorSize,
		Regenerate:    cfg.Regenerate,
		RouteCacheTTL: cfg.RouteCacheTTL,
		MaxExpansions: cfg.MaxExpansions,
	}
}

type Service struct {
	info     Info
	galaxy   *Galaxy
	repo     *Repository
	cache    RouteCache
	settings Settings
	logger   *slog.Logger

	// renameMu orders storage and memory writes of concurrent renames.
	renameMu sync.Mutex
}

// NewService wires the galaxy service. repo and cache may be nil.
func NewService(repo *Repository, cache RouteCache, settings Settings, logger *slog.Logger) *Service {
	logger.Debug("Initializing galaxy service")

	return &Service{
		repo:     repo,
		cache:    cache,
		settings: settings,
		logger:   logger,
	}
}

// Initialize loads the latest stored galaxy or generates and stores a new
// one.
func (s *Service) Initialize(ctx context.Context, gens *config.Generators, corpus []string) error {
	logger := s.logger.With("component", "galaxy_service", "operation", "initialize")

	if s.repo != nil && !s.settings.Regenerate {
		id, err := s.repo.LatestGalaxyID(ctx)
		if err != nil {
			return errors.WrapInternal("failed to look up stored galaxy", err)
		}
		if id != "" {
			info, g, err := s.repo.LoadGalaxy(ctx, id)
			if err != nil {
				return errors.WrapInternal("failed to load stored galaxy", err)
			}
			if info.Seed != s.settings.Seed {
				logger.Warn("Stored galaxy uses a different seed than configured",
					"stored_seed", info.Seed, "configured_seed", s.settings.Seed)
			}
			s.Adopt(info, g)
			logger.Info("Using stored galaxy", "galaxy_id", info.ID, "systems", info.SystemCount)
			return nil
		}
	}

	info, g, err := s.Generate(ctx, gens, corpus)
	if err != nil {
		return err
	}

	if s.repo != nil {
		if err := s.repo.SaveGalaxy(ctx, info, g); err != nil {
			return errors.WrapInternal("failed to save galaxy", err)
		}
	}

	s.Adopt(info, g)
	return nil
}

// Generate builds a fresh galaxy from the configured settings without
// storing it.
func (s *Service) Generate(ctx context.Context, gens *config.Generators, corpus []string) (Info, *Galaxy, error) {
	names := namegen.New(namegen.Options{Seed: s.settings.Seed})
	names.Train(corpus)

	builder := &Builder{
		Generator: &system.Generator{
			Names:       names,
			Stars:       star.NewGenerator(gens.Star),
			Planets:     planet.NewGenerator(gens.Planet),
			Seed:        s.settings.Seed,
			PlanetCount: gens.PlanetCount,
		},
		Names:   names,
		Options: Options{CellSize: s.settings.CellSize, SectorSize: s.settings.SectorSize},
		Logger:  s.logger,
	}

	locations := SampleLocations(s.settings.Seed, s.settings.SystemCount, s.settings.Radius, s.settings.Thickness)
	if len(locations) < s.settings.SystemCount {
		s.logger.Warn("Sampled fewer locations than requested",
			"component", "galaxy_service",
			"operation", "generate",
			"requested", s.settings.SystemCount,
			"sampled", len(locations),
			"radius", s.settings.Radius,
			"thickness", s.settings.Thickness,
		)
	}
	g, err := builder.Build(ctx, locations)
	if err != nil {
		return Info{}, nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Info{}, nil, errors.WrapInternal("failed to create galaxy id", err)
	}

	info := Info{
		ID:          id.String(),
		Name:        s.settings.Name,
		Seed:        s.settings.Seed,
		CellSize:    g.CellSize(),
		SectorSize:  g.SectorSize(),
		SystemCount: g.Len(),
		SectorCount: len(g.Sectors()),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	return info, g, nil
}

// Adopt makes g the served galaxy. It must be called before serving.
func (s *Service) Adopt(info Info, g *Galaxy) {
	s.info = info
	s.galaxy = g
}

func (s *Service) Info() Info {
	return s.info
}

func (s *Service) Galaxy() *Galaxy {
	return s.galaxy
}

// Route plans a route through the cache. A cache failure is logged and the
// route is computed directly.
func (s *Service) Route(ctx context.Context, from, to spatial.Location, opts RouteOptions) (Route, bool, error) {
	if !from.IsFinite() || !to.IsFinite() {
		return Route{}, false, errors.Validation("route endpoints must be finite")
	}
	if math.IsNaN(opts.Range) || opts.Range < 0 {
		return Route{}, false, errors.Validation("range must be a non-negative number")
	}
	if opts.MaxJumps < 0 {
		return Route{}, false, errors.Validation("max_jumps must not be negative")
	}
	if opts.MaxExpansions <= 0 {
		opts.MaxExpansions = s.settings.MaxExpansions
	}

	logger := s.logger.With("component", "galaxy_service", "operation", "route", "from", from.String(), "to", to.String())

	key := RouteKey(s.info.ID, from, to, opts)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Route cache unavailable", "error", err, "error_type", errors.GetType(err))
		} else if ok {
			logger.Debug("Route cache hit")
			return cached.Route, cached.Found, nil
		}
	}

	_, span := tracer.Start(ctx, "galaxy.route")
	route, found := s.galaxy.Route(from, to, opts)
	span.SetAttributes(
		attribute.Bool("route.found", found),
		attribute.Int("route.jumps", route.Jumps),
		attribute.Float64("route.range", opts.Range),
	)
	span.End()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, CachedRoute{Found: found, Route: route}, s.settings.RouteCacheTTL); err != nil {
			logger.Warn("Failed to cache route", "error", err, "error_type", errors.GetType(err))
		}
	}

	logger.Debug("Route planned", "found", found, "jumps", route.Jumps, "cost", route.Cost)
	return route, found, nil
}

// RenameSystem changes a system's name in storage, when persistence is
// enabled, and then in memory. Both change or neither does. Storage is written
// without holding the galaxy lock so that queries are not held up by I/O.
func (s *Service) RenameSystem(ctx context.Context, loc spatial.Location, name string) (system.System, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return system.System{}, errors.Validation("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return system.System{}, errors.Validationf("name must be at most %d characters", maxNameLength)
	}

	logger := s.logger.With("component", "galaxy_service", "operation", "rename_system", "location", loc.String())

	s.renameMu.Lock()
	defer s.renameMu.Unlock()

	current, ok := s.galaxy.System(loc)
	if !ok {
		return system.System{}, errors.NotFoundf("no system at %s", loc)
	}

	if s.repo != nil {
		if err := s.repo.RenameSystem(ctx, s.info.ID, loc, name); err != nil {
			return system.System{}, errors.WrapInternal("failed to store system name", err)
		}
	}

	err := s.galaxy.UpdateSystem(loc, func(sys *system.System) error {
		sys.Name = name
		return nil
	})
	if err != nil {
		if s.repo != nil {
			if revertErr := s.repo.RenameSystem(ctx, s.info.ID, loc, current.Name); revertErr != nil {
				logger.Error("Failed to restore stored system name", "error", revertErr)
			}
		}
		return system.System{}, err
	}

	updated, ok := s.galaxy.System(loc)
	if !ok {
		return system.System{}, fmt.Errorf("system at %s disappeared", loc)
	}

	logger.Info("System renamed", "name", name)
	return updated, nil
}
