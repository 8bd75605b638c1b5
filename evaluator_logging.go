package crosswire

import (
	"log/slog"
	"time"
)

// EvaluatorLogEvent describes an expr setting evaluation for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Setting  string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// SlogEvaluatorLogger writes evaluation events to logger at debug level.
func SlogEvaluatorLogger(logger *slog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		attrs := []any{
			"engine", event.Engine,
			"setting", event.Setting,
			"expr", event.Expr,
			"duration", event.Duration,
		}
		if event.Err != nil {
			logger.Debug("setting evaluation failed", append(attrs, "error", event.Err)...)
			return
		}
		logger.Debug("setting evaluated", attrs...)
	})
}
