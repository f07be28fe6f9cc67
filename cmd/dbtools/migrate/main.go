// cmd/dbtools/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/config"
	"github.com/codr1/Courtbook/internal/db"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to the YAML configuration file")
		dbPath     = flag.String("db", "", "Path to SQLite database (overrides config)")
		command    = flag.String("command", "", "Command to run (up, down, version, steps)")
		steps      = flag.Int("n", 1, "Number of steps for the steps command; negative rolls back")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
		}
		path = cfg.Database.Filename
	}

	// Create database directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	sqlDB, err := sql.Open(db.DriverName, path)
	if err != nil {
		log.Fatal().Err(err).Str("db", path).Msg("Failed to open database")
	}

	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}
	defer m.Close()

	if err := run(m, *command, *steps); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration failed")
	}
	log.Info().Str("command", *command).Str("db", path).Msg("Migration complete")
}

func run(m *migrate.Migrate, command string, steps int) error {
	switch command {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Down())
	case "steps":
		return ignoreNoChange(m.Steps(steps))
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("Version: none")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
		return nil
	}
	return fmt.Errorf("unknown command: %s", command)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
