package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/employee-roster/internal/adapters/dataset/jsonfile"
	"github.com/ogurasousui/employee-roster/internal/adapters/grpc/handler"
	"github.com/ogurasousui/employee-roster/internal/adapters/i18n/catalog"
	"github.com/ogurasousui/employee-roster/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/core/locale"
	"github.com/ogurasousui/employee-roster/internal/core/roster"
	"github.com/ogurasousui/employee-roster/internal/platform/config"
	pg "github.com/ogurasousui/employee-roster/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-roster/internal/platform/logging"
	"github.com/ogurasousui/employee-roster/internal/platform/server"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize logger")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	store := roster.NewStore()
	svc := roster.NewService(store, nil)

	source, closeSource, err := newDatasetSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()
	roster.Bootstrap(ctx, svc, source, log.WithField("component", "dataset"))

	i18n := newBroadcaster(cfg.I18n, log)
	<-i18n.RequestLocale(ctx, cfg.I18n.DefaultLocale)

	h := handler.NewRosterGrpcHandler(svc, store, i18n, cfg.Roster.ItemsPerPage, log.WithField("component", "grpc"))
	grpcServer := server.New(cfg.Server.ListenAddr, h, log)

	if err := grpcServer.Run(ctx); err != nil {
		return err
	}
	i18n.Wait()
	return nil
}

func newBroadcaster(cfg config.I18nConfig, log *logrus.Logger) *locale.Broadcaster {
	loader := catalog.Embedded()
	if cfg.Dir != "" {
		loader = catalog.Dir(cfg.Dir)
	}

	opts := []locale.Option{
		locale.WithLogger(log.WithField("component", "locale")),
		locale.WithDefaultLocale(cfg.DefaultLocale),
	}
	if cfg.SupersedeStale {
		opts = append(opts, locale.WithSupersedeStale())
	}
	return locale.New(loader, opts...)
}

func newDatasetSource(ctx context.Context, cfg *config.Config, log *logrus.Logger) (employee.Source, func(), error) {
	switch cfg.Dataset.Source {
	case config.DatasetSourceFile:
		return jsonfile.NewSource(cfg.Dataset.Path), func() {}, nil
	case config.DatasetSourcePostgres:
		pool, err := pg.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize database pool: %w", err)
		}
		return postgres.NewEmployeeRepository(pool), pool.Close, nil
	default:
		return nil, func() {}, nil
	}
}
