package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/savingsvault/internal/app"
	"github.com/polkiloo/savingsvault/internal/config"
	"github.com/polkiloo/savingsvault/internal/logger"
	"github.com/polkiloo/savingsvault/internal/metrics"
	"github.com/polkiloo/savingsvault/internal/pkg/auth"
	"github.com/polkiloo/savingsvault/internal/server/http/router"
	"github.com/polkiloo/savingsvault/internal/storage/postgres"
	"github.com/polkiloo/savingsvault/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		metrics.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
