package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects appended fx hooks without running them, so
// tests can fire OnStart/OnStop by hand.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append records the hook.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// Last returns the most recently appended hook.
func (l *LifecycleRecorder) Last() fx.Hook {
	return l.Hooks[len(l.Hooks)-1]
}

// ShutdownerStub signals on its channel when a shutdown is requested.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown records the request. It never blocks the caller.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
