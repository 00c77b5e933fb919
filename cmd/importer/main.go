package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"buildings-api/internal/config"
	"buildings-api/internal/database"
	"buildings-api/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("importer failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "importer",
		Usage: "Manage the buildings database schema and bulk-load building data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Directory containing app.env",
				Value: "configs",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(os.Stderr, c.String("log-level"), true)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the embedded schema migrations",
				Action: migrateCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back every migration instead",
					},
				},
			},
			{
				Name:   "import",
				Usage:  "Bulk-load buildings from a CSV file into buildings_table_2",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the CSV file to import",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "truncate",
						Usage: "Delete existing buildings before loading",
					},
				},
			},
		},
	}
}

func migrateCommand(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	if !c.Bool("down") {
		if err := database.RunMigrations(cfg.DBSource); err != nil {
			return err
		}
		log.Info().Msg("migrations applied")
		return nil
	}

	m, err := database.NewMigrator(cfg.DBSource)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	log.Info().Msg("migrations rolled back")
	return nil
}

func importCommand(c *cli.Context) error {
	file := c.String("file")
	log.Info().Str("file", file).Msg("starting import")

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		return fmt.Errorf("error parsing CSV: %w", err)
	}
	log.Info().Int("records", len(records.rows)).Msg("parsed records")

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	before, err := countBuildings(ctx, conn)
	if err != nil {
		return err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if c.Bool("truncate") {
		if _, err := tx.Exec(ctx, `TRUNCATE buildings_table_2 CASCADE`); err != nil {
			return fmt.Errorf("failed to truncate buildings: %w", err)
		}
		before = 0
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"buildings_table_2"}, records.columns, pgx.CopyFromRows(records.rows))
	if err != nil {
		return fmt.Errorf("error inserting records: %w", err)
	}

	if records.hasID {
		// explicit ids leave the sequence behind
		if _, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('buildings_table_2', 'building_id'), (SELECT max(building_id) FROM buildings_table_2))`); err != nil {
			return fmt.Errorf("failed to advance id sequence: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	after, err := countBuildings(ctx, conn)
	if err != nil {
		return err
	}
	if after-before != int(n) {
		return fmt.Errorf("record count mismatch: expected %d new rows, got %d", n, after-before)
	}

	log.Info().Int64("imported", n).Int("total", after).Msg("import finished")
	return nil
}

func countBuildings(ctx context.Context, conn *pgx.Conn) (int, error) {
	var count int
	if err := conn.QueryRow(ctx, `SELECT count(*) FROM buildings_table_2`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
