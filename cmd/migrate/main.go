// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"nashr/internal/config"
	"nashr/internal/database"

	"github.com/jackc/pgx/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return errors.New("usage: go run ./cmd/migrate <create-db|up|all>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "create-db":
		return createDatabase(ctx, cfg)
	case "up":
		return migrate(cfg)
	case "all":
		if err := createDatabase(ctx, cfg); err != nil {
			return err
		}
		return migrate(cfg)
	default:
		return usage()
	}
}

// createDatabase connects to the maintenance database and creates cfg.DBName when missing.
func createDatabase(ctx context.Context, cfg *config.Config) error {
	if cfg.UsesSQLite() {
		log.Println("sqlite driver selected; nothing to create")
		return nil
	}

	conn, err := pgx.Connect(ctx, database.PostgresDSN(cfg, "postgres"))
	if err != nil {
		return fmt.Errorf("connect maintenance database: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	var exists bool
	if err := conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database: %w", err)
	}
	if exists {
		log.Printf("database %q already exists", cfg.DBName)
		return nil
	}

	// CREATE DATABASE cannot take bind parameters.
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	log.Printf("database %q created", cfg.DBName)
	return nil
}

// migrate applies the schema regardless of APP_ENV; Connect only does so outside production.
func migrate(cfg *config.Config) error {
	if !cfg.IsProduction() {
		if _, err := database.Connect(cfg); err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		log.Println("schema is up to date")
		return nil
	}

	db, err := gorm.Open(postgres.Open(database.PostgresDSN(cfg, cfg.DBName)), &gorm.Config{
		Logger:         database.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("schema migrated")
	return nil
}
