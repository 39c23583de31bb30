package main

import (
	"database/sql"
	"log"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/daniosoriov/todo-manager/internal/api"
	"github.com/daniosoriov/todo-manager/internal/config"
	"github.com/daniosoriov/todo-manager/internal/repository"
	"github.com/daniosoriov/todo-manager/internal/services"
	"github.com/daniosoriov/todo-manager/migrations"
)

func main() {
	conf, err := config.New()
	if err != nil {
		// Missing signing secrets or DB URL: nothing useful can run
		log.Fatal(err)
	}

	// Configure logger
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger := slog.New(handler)

	// Run database migrations
	if err := migrations.Migrate("pgx", conf.DbUrl, logger); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	// Open SQL connection
	conn, err := sql.Open("pgx", conf.DbUrl)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Fatal(err)
		}
	}()

	// Create Bun client
	bunDB := bun.NewDB(conn, pgdialect.New())

	// Create repositories
	users := repository.NewUsers(bunDB, logger)
	tokens := repository.NewTokens(bunDB)
	tasks := repository.NewTasks(bunDB)

	service := services.NewService(logger, conf, users, tokens, tasks)

	// Create the HTTP server
	server := api.NewServer(conf, logger, service)
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
