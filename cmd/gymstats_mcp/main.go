// Package main runs the workout log MCP server over stdio (for local editor/agent use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"

	"github.com/2beens/workoutlog/internal/cache"
	"github.com/2beens/workoutlog/internal/config"
	"github.com/2beens/workoutlog/internal/db"
	"github.com/2beens/workoutlog/internal/gymstats/history"
	gymstatsmcp "github.com/2beens/workoutlog/internal/gymstats/mcp"
	"github.com/2beens/workoutlog/internal/gymstats/progress"
	"github.com/2beens/workoutlog/internal/gymstats/repo"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.StoreBackend != "postgres" {
		log.Fatalf("the MCP server needs the postgres store backend, got [%s]", cfg.StoreBackend)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	store := repo.NewPgStore(dbPool)
	stats := progress.NewStats(store, cache.NewMapCache(), progress.DefaultHistoryCacheTTL)
	svc := gymstatsmcp.NewContextService(
		gymstatsmcp.NewPoolSchemaRepo(dbPool),
		store,
		stats,
		history.NewAnalyzer(store),
	)
	server := gymstatsmcp.NewServer(svc)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
