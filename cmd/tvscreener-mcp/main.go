// Command tvscreener-mcp serves the screener as MCP tools over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quantfold/tvscreener/internal/config"
	"github.com/quantfold/tvscreener/internal/logging"
	"github.com/quantfold/tvscreener/internal/mcptools"
	"github.com/quantfold/tvscreener/pkg/fields"
	"github.com/quantfold/tvscreener/pkg/screener"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cleanup, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	opts := []screener.Option{
		screener.WithBaseURL(cfg.BaseURL),
		screener.WithTimeout(cfg.Timeout),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, screener.WithUserAgent(cfg.UserAgent))
	}
	if cfg.CacheEntries > 0 {
		opts = append(opts, screener.WithCache(cfg.CacheEntries))
	}

	srv := sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "tvscreener-mcp", Version: "1.0.0"},
		nil,
	)
	mcptools.Register(srv, &mcptools.Deps{
		Client: screener.NewClient(opts...),
		Fields: fields.NewIndex(),
	})

	slog.Info("starting tvscreener MCP server on stdio")
	if err := srv.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
