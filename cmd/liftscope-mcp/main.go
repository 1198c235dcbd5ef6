package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftscope/internal/config"
	liftmcp "github.com/claude/liftscope/internal/mcp"
	"github.com/claude/liftscope/internal/progress"
	"github.com/claude/liftscope/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "remote LiftScope base URL (e.g. http://liftscope); when set, data is fetched over the REST API")
	configPath := flag.String("config", "", "path to config file for local database mode")
	userID := flag.Int("user", 1, "user id to scope queries to")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds liftmcp.DataSource

	switch {
	case *serverURL != "":
		ds = liftmcp.NewHTTPClient(*serverURL)
		log.Info("mcp remote mode", "server", *serverURL)

	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = liftmcp.NewLocal(progress.NewService(db, db, db, log))
		log.Info("mcp local mode", "database", cfg.Database.Name)

	default:
		fmt.Fprintf(os.Stderr, "Usage: liftscope-mcp -server http://liftscope | -config config.yaml [-user 1]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := liftmcp.New(ds, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return liftmcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
