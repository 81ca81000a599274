package clock

import "go.uber.org/fx"

// Module wires the wall clock for dependency injection.
var Module = fx.Provide(New)
