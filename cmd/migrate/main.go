package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/employee-roster/internal/platform/config"
	"github.com/ogurasousui/employee-roster/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

const usage = `Usage: migrate [flags] [up|down|drop|version]

Manages the employees table that the roster server reads when
dataset.source is "postgres". The roster never writes to this table;
use -dir assets/seeds -table schema_seeds to load the sample employees.

Flags:
`

// action は migrate.Migrate に対する 1 つの操作です。
type action func(m *migrate.Migrate, log logrus.FieldLogger) error

var actions = map[string]action{
	"up":      up,
	"down":    down,
	"drop":    func(m *migrate.Migrate, _ logrus.FieldLogger) error { return m.Drop() },
	"version": version,
}

func main() {
	var (
		configPath      = flag.String("config", "", "roster config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir   = flag.String("dir", "assets/migrations", "directory holding the employees schema migrations")
		migrationsTable = flag.String("table", "", "version table name, e.g. schema_seeds when applying assets/seeds")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	name := "up"
	if flag.NArg() > 0 {
		name = flag.Arg(0)
	}
	run, ok := actions[name]
	if !ok {
		flag.Usage()
		logrus.WithField("action", name).Fatalf("unsupported action, expected one of %v", actionNames())
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize logger")
	}
	if err := cfg.Database.Validate(); err != nil {
		log.WithError(err).Fatal("database section is required for migrations")
	}

	entry := log.WithFields(logrus.Fields{"action": name, "dir": *migrationsDir})
	m, err := open(*migrationsDir, withMigrationsTable(cfg.Database.DSN(), *migrationsTable))
	if err != nil {
		entry.WithError(err).Fatal("failed to open migrations")
	}
	defer m.Close()

	if err := run(m, entry); err != nil {
		entry.WithError(err).Fatal("migration failed")
	}
	entry.Info("migration completed")
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func open(dir, dsn string) (*migrate.Migrate, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// withMigrationsTable は golang-migrate の x-migrations-table パラメータを DSN に付与します。
func withMigrationsTable(dsn, table string) string {
	if table == "" {
		return dsn
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	q.Set("x-migrations-table", table)
	u.RawQuery = q.Encode()
	return u.String()
}

func up(m *migrate.Migrate, _ logrus.FieldLogger) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func down(m *migrate.Migrate, _ logrus.FieldLogger) error {
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func version(m *migrate.Migrate, log logrus.FieldLogger) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("no migration applied")
		return nil
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"version": v, "dirty": dirty}).Info("employees schema version")
	return nil
}

func actionNames() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
