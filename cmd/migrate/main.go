package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	log, err := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(dir, flag.Args(), log); err != nil {
		log.Fatal("migrate failed", zap.Error(err))
	}
}

func run(dir string, args []string, log *zap.Logger) error {
	command := args[0]

	// new and list work on files alone, no database needed
	switch command {
	case "new":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate new <name>")
		}
		p, err := migration.Scaffold(dir, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		log.Info("migration scaffolded",
			zap.String("up", p.UpPath),
			zap.String("down", p.DownPath))
		return nil

	case "list":
		names, err := migration.List(dir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			log.Info("no migrations found", zap.String("path", dir))
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	runner, err := migration.NewRunner(db, dir, log)
	if err != nil {
		return err
	}
	defer runner.Close()

	switch command {
	case "up":
		return runner.Up()

	case "down":
		return runner.Down()

	case "step":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("step count %q is not a number", args[1])
		}
		return runner.Steps(n)

	case "version":
		version, dirty, err := runner.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return nil

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("version %q is not a number", args[1])
		}
		return runner.Force(version)

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `invoicing schema migration tool

usage: migrate [flags] <command> [arguments]

commands:
  up               apply all pending migrations
  down             roll back all applied migrations
  step <n>         apply n migrations, negative n rolls back
  version          show the applied schema version
  force <version>  overwrite the recorded version (dirty schema recovery)
  new <name>       scaffold an up/down migration pair
  list             list migrations on disk

flags:
  -path string       migrations directory (default "migrations")
  -log-level string  debug, info, warn or error (default "info")
`)
}
