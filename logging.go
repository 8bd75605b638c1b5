package crosswire

import (
	"log/slog"
	"time"
)

// ConfigurationEvent describes one change to a registry's shared store.
type ConfigurationEvent struct {
	Registry   string
	Operation  string
	Names      []string
	StoreSize  int
	OccurredAt time.Time
}

// RegistryLogger records configuration changes.
type RegistryLogger interface {
	LogConfiguration(ConfigurationEvent)
}

// RegistryLoggerFunc adapts a function to RegistryLogger.
type RegistryLoggerFunc func(ConfigurationEvent)

// LogConfiguration implements RegistryLogger.
func (f RegistryLoggerFunc) LogConfiguration(event ConfigurationEvent) {
	if f != nil {
		f(event)
	}
}

type noopRegistryLogger struct{}

func (noopRegistryLogger) LogConfiguration(ConfigurationEvent) {}

// SlogLogger writes configuration events to logger at debug level.
func SlogLogger(logger *slog.Logger) RegistryLogger {
	if logger == nil {
		return noopRegistryLogger{}
	}
	return RegistryLoggerFunc(func(event ConfigurationEvent) {
		logger.Debug("configuration changed",
			"registry", event.Registry,
			"operation", event.Operation,
			"names", event.Names,
			"store_size", event.StoreSize,
		)
	})
}
