package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"starmap-server/internal/mcptools"
	"starmap-server/internal/server"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/logger"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// stdout carries the protocol.
	logger.InitWriter(os.Stderr)
	log := slog.With("component", "mcp")

	app, err := server.Bootstrap(ctx, config.GlobalConfig, slog.Default())
	if err != nil {
		log.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	log.Info("Starmap MCP server starting (stdio)")
	if err := mcptools.NewServer(app.Galaxy, version).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error("Server error", "error", err)
		app.Close()
		os.Exit(1)
	}
}
