package config

import "go.uber.org/fx"

// Module loads the configuration once and exposes it to the graph.
var Module = fx.Module("config", fx.Provide(Load))
