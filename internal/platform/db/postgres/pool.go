package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ogurasousui/employee-roster/internal/platform/config"
	"github.com/sirupsen/logrus"
)

// ApplicationName は接続時に application_name として送信されます。
const ApplicationName = "employee-roster"

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// データセットの読み込みにしか使わないため、接続は読み取り専用セッションとして開きます。
func BuildPoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	poolCfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	return poolCfg, nil
}

// NewPool は pgxpool.Pool を生成し疎通確認を行います。
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"host":      cfg.Host,
			"database":  cfg.Name,
			"max_conns": poolCfg.MaxConns,
		}).Info("postgres: pool ready")
	}

	return pool, nil
}
