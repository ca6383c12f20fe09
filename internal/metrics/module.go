package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/savingsvault/internal/usecase"
	"github.com/polkiloo/savingsvault/internal/worker"
)

// Module provides service metrics and registers them as deposit and audit observer.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(
		func(m *Metrics) usecase.DepositObserver { return m },
		func(m *Metrics) worker.AuditObserver { return m },
	),
)
