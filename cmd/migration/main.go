package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/fantasy-hockey/internal/app"
	"github.com/riskibarqy/fantasy-hockey/internal/config"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
)

var migrationDirs = []string{"./db/migrations", "/app/db/migrations"}

// migrator is the part of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (uint, bool, error)
}

type command struct {
	usage string
	run   func(m migrator, args []string, out io.Writer, logger *logging.Logger) error
}

var commands = map[string]command{
	"up":      {usage: "up", run: cmdUp},
	"down":    {usage: "down [steps]", run: cmdDown},
	"version": {usage: "version", run: cmdVersion},
	"force":   {usage: "force <version>", run: cmdForce},
	"goto":    {usage: "goto <version>", run: cmdGoto},
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	name := strings.ToLower(strings.TrimSpace(os.Args[1]))
	cmd, ok := commands[name]
	if !ok {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.NewJSON(os.Stderr, cfg.LogLevel).Named("migration")
	defer func() { _ = logger.Sync() }()

	if err := execute(cmd, app.MigrationURL(cfg), os.Args[2:], logger); err != nil {
		logger.Error("migration failed", "command", name, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func execute(cmd command, dbURL string, args []string, logger *logging.Logger) error {
	dir, err := findMigrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		return err
	}
	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, dbURL)
	if err != nil {
		return fmt.Errorf("open migrations at %s: %w", source, err)
	}
	m.Log = migrateLogger{logger: logger}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	return cmd.run(m, args, os.Stdout, logger)
}

func cmdUp(m migrator, _ []string, _ io.Writer, logger *logging.Logger) error {
	if err := settle(logger, m.Up()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("schema up to date")
	return nil
}

func cmdDown(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
	steps, err := parseSteps(args)
	if err != nil {
		return err
	}
	if err := settle(logger, m.Steps(-steps)); err != nil {
		return fmt.Errorf("roll back %d migrations: %w", steps, err)
	}
	logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func cmdVersion(m migrator, _ []string, out io.Writer, _ *logging.Logger) error {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		_, err = fmt.Fprintln(out, "version=none dirty=false")
		return err
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}
	_, err = fmt.Fprintf(out, "version=%d dirty=%t\n", version, dirty)
	return err
}

func cmdForce(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
	if len(args) != 1 {
		return errors.New("force takes exactly one version")
	}
	version, err := parseVersion(args[0])
	if err != nil {
		return err
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	logger.Warn("schema version forced", "version", version)
	return nil
}

func cmdGoto(m migrator, args []string, _ io.Writer, logger *logging.Logger) error {
	if len(args) != 1 {
		return errors.New("goto takes exactly one version")
	}
	target, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	if err := settle(logger, m.Migrate(target)); err != nil {
		return fmt.Errorf("migrate to %d: %w", target, err)
	}
	logger.Info("schema migrated", "version", target)
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

// settle treats "nothing to do" as success.
func settle(logger *logging.Logger, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

// findMigrationsDir returns the first existing directory among override and
// the default locations, as an absolute path.
func findMigrationsDir(override string) (string, error) {
	candidates := append([]string{strings.TrimSpace(override)}, migrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, %s)", strings.Join(migrationDirs, ", "))
}

// migrateLogger routes golang-migrate progress through the service logger.
type migrateLogger struct {
	logger *logging.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool { return false }

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <command> [args]\n", name)
	for _, key := range []string{"up", "down", "version", "force", "goto"} {
		fmt.Fprintf(w, "  %s %s\n", name, commands[key].usage)
	}
}
