package postgres

import (
	"testing"
	"time"

	"github.com/ogurasousui/employee-roster/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "roster",
		Password:        "p@ss",
		Name:            "roster",
		SSLMode:         "disable",
		MaxOpenConns:    4,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	poolCfg, err := BuildPoolConfig(dbCfg)
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 4 || poolCfg.MinConns != 1 {
		t.Errorf("unexpected pool bounds: max=%d min=%d", poolCfg.MaxConns, poolCfg.MinConns)
	}
	if poolCfg.MaxConnLifetime != 30*time.Minute || poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected lifetimes: %v / %v", poolCfg.MaxConnLifetime, poolCfg.MaxConnIdleTime)
	}
	if poolCfg.ConnConfig.Password != "p@ss" {
		t.Errorf("password should survive DSN escaping, got %q", poolCfg.ConnConfig.Password)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != ApplicationName {
		t.Errorf("expected application_name %s, got %q", ApplicationName, got)
	}
	if got := poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"]; got != "on" {
		t.Errorf("expected read-only sessions, got %q", got)
	}
}

func TestBuildPoolConfig_KeepsDefaultsWhenUnset(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", Name: "db", SSLMode: "disable",
	})
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns <= 0 {
		t.Errorf("expected pgx default MaxConns, got %d", poolCfg.MaxConns)
	}
	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}
}
