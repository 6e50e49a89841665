package modkit

import (
	"querygate/internal/platform/config"
	"querygate/internal/platform/logger"
	"querygate/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	Metrics *metrics.Metrics // nil is a no-op
}

// Logger returns a component logger, derived from Log when set
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log == nil {
		return logger.Named(component)
	}
	ll := d.Log.With().Str("component", component).Logger()
	return &ll
}
