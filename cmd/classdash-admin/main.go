// classdash-admin is an operator CLI for database and roster maintenance
// tasks that should not run inside the long-lived server process.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/classdash/classdash/config"
	"github.com/classdash/classdash/internal/bootstrap"
	"github.com/classdash/classdash/internal/data"
	"github.com/classdash/classdash/internal/devseed"
	"github.com/classdash/classdash/internal/export"
	"github.com/classdash/classdash/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and load the demo roster",
			run:         runDBSeed,
		},
		"ingest": {
			name:        "ingest",
			description: "Run a single roster ingestion pass against the configured feed",
			run:         runIngestOnce,
		},
		"ingest-status": {
			name:        "ingest-status",
			description: "Show the most recent roster ingestion run",
			run:         runIngestStatus,
		},
		"export-roster": {
			name:        "export-roster",
			description: "Write a class roster to an xlsx file",
			run:         runExportRoster,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: classdash-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-16s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func runMigrations(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "migration timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: ctx.Config.Postgres, Logger: ctx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(ctx, db.Close, "close database")

	runCtx, cancel := context.WithTimeout(ctx.Ctx, *timeout)
	defer cancel()

	return bootstrap.RunMigrations(runCtx, db, ctx.Logger)
}

func runDBSeed(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "seed timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: ctx.Config.Postgres, Logger: ctx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(ctx, db.Close, "close database")

	runCtx, cancel := context.WithTimeout(ctx.Ctx, *timeout)
	defer cancel()

	if err = bootstrap.RunMigrations(runCtx, db, ctx.Logger); err != nil {
		return err
	}
	return devseed.Run(runCtx, db, ctx.Logger)
}

func runIngestOnce(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 10*time.Minute, "ingest timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: ctx.Config.Postgres, Logger: ctx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(ctx, db.Close, "close database")

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &ctx.Config,
		DB:     db,
		Logger: ctx.Logger,
	})
	if services.Ingest == nil {
		return errors.New("roster feed not configured; set ONEROSTER_BASE_URL and ONEROSTER_TENANT_ID")
	}

	runCtx, cancel := context.WithTimeout(ctx.Ctx, *timeout)
	defer cancel()

	if err = services.Ingest.RunOnce(runCtx); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	ctx.Logger.InfoContext(runCtx, "ingest pass completed")
	return nil
}

func runIngestStatus(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("ingest-status", flag.ContinueOnError)
	rawJSON := fs.Bool("json", false, "print the raw run record as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: ctx.Config.Postgres, Logger: ctx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(ctx, db.Close, "close database")

	run, err := data.NewIngestRunRepo(db).Latest(ctx.Ctx)
	if errors.Is(err, data.ErrIngestRunNotFound) {
		return writef(os.Stdout, "no ingest runs recorded\n")
	}
	if err != nil {
		return fmt.Errorf("load latest ingest run: %w", err)
	}

	if *rawJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	if err := writef(os.Stdout, "run %s: %s (started %s)\n", run.ID, run.Status, run.StartedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	if err := writef(os.Stdout, "  users=%d classes=%d enrollments=%d\n", run.Users, run.Classes, run.Enrollments); err != nil {
		return err
	}
	if run.Error != nil {
		return writef(os.Stdout, "  error: %s\n", *run.Error)
	}
	return nil
}

func runExportRoster(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("export-roster", flag.ContinueOnError)
	classID := fs.String("class", "", "class ID to export (required)")
	outPath := fs.String("out", "", "output path (default roster-<class>.xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *classID == "" {
		return errors.New("export-roster requires -class")
	}
	if *outPath == "" {
		*outPath = "roster-" + *classID + ".xlsx"
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: ctx.Config.Postgres, Logger: ctx.Logger})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer closeQuietly(ctx, db.Close, "close database")

	svc := service.NewRosterService(service.RosterServiceOptions{
		Store:  data.NewRosterRepo(db),
		Logger: ctx.Logger,
	})
	roster, err := svc.RosterFor(ctx.Ctx, *classID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	f, err := export.RosterWorkbook(roster)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(*outPath); err != nil {
		return fmt.Errorf("write %s: %w", *outPath, err)
	}
	ctx.Logger.InfoContext(ctx.Ctx, "roster exported", "class_id", *classID, "path", *outPath, "rows", len(roster))
	return nil
}

func closeQuietly(ctx *commandContext, closeFn func() error, what string) {
	if err := closeFn(); err != nil {
		ctx.Logger.ErrorContext(ctx.Ctx, what+" failed", "error", err)
	}
}
