package config

import "go.uber.org/fx"

// Module provides the parsed *Config.
var Module = fx.Provide(Load)
