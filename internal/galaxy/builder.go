package galaxy

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"starmap-server/internal/sector"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

var tracer = otel.Tracer("starmap-server/internal/galaxy")

// Builder generates a galaxy from a list of locations. Systems are generated
// in input order because they share the name source; sectors are named
// after all systems.
type Builder struct {
	Generator *system.Generator
	Names     sector.NameSource
	Options   Options
	Logger    *slog.Logger
}

func (b *Builder) Build(ctx context.Context, locations []spatial.Location) (*Galaxy, error) {
	ctx, span := tracer.Start(ctx, "galaxy.build",
		trace.WithAttributes(attribute.Int("galaxy.locations", len(locations))),
	)
	defer span.End()

	logger := b.logger().With("component", "galaxy_builder", "operation", "build", "locations", len(locations))
	logger.Info("Generating galaxy")

	systems := make([]system.System, 0, len(locations))
	for i, loc := range locations {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "cancelled")
				return nil, fmt.Errorf("galaxy generation cancelled: %w", err)
			}
		}

		s, err := b.Generator.Generate(loc)
		if err != nil {
			logger.Error("Failed to generate system", "error", err, "location", loc.String())
			span.RecordError(err)
			span.SetStatus(codes.Error, "generation failed")
			return nil, err
		}
		systems = append(systems, s)
	}

	sectors := sector.Partition(locations, b.Options.SectorSize, b.Names, b.logger())

	g, err := New(systems, sectors, b.Options)
	if err != nil {
		logger.Error("Failed to index galaxy", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "index failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("galaxy.systems", g.Len()),
		attribute.Int("galaxy.sectors", len(sectors)),
	)
	logger.Info("Galaxy generated", "systems", g.Len(), "sectors", len(sectors))
	return g, nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}
