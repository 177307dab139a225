package roster

import (
	"context"

	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/sirupsen/logrus"
)

// Bootstrap はロスターが空の場合に限りデータセットを読み込みます。
// 読み込みに失敗してもロスターは空のまま継続し、エラーはログにのみ残します。
func Bootstrap(ctx context.Context, svc *Service, source employee.Source, log logrus.FieldLogger) bool {
	if source == nil {
		return false
	}
	if svc.store.State().Len() > 0 {
		log.Debug("roster: dataset already present, skipping bootstrap")
		return false
	}

	list, err := source.LoadAll(ctx)
	if err != nil {
		log.WithError(err).Error("roster: failed to load dataset")
		return false
	}

	if err := svc.ReplaceEmployees(ctx, list); err != nil {
		log.WithError(err).Error("roster: rejected dataset")
		return false
	}

	log.WithField("employees", len(list)).Info("roster: dataset loaded")
	return true
}
