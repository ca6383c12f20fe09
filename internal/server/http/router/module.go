package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/savingsvault/internal/app"
	"github.com/polkiloo/savingsvault/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Options(
	fx.Provide(func(f *app.VaultFacade) handlers.SavingsFacade { return f }),
	fx.Provide(Setup),
)
