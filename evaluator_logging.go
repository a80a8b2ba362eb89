package binding

import "time"

// EvaluatorLogEvent is reported once for every tag a render evaluates.
type EvaluatorLogEvent struct {
	Engine string
	Expr   string
	Scope  string
	Line   int
	// Output is set for "<%=" tags and clear for statements.
	Output   bool
	Duration time.Duration
	Err      error
}

// Failed reports whether the tag aborted the render.
func (e EvaluatorLogEvent) Failed() bool {
	return e.Err != nil
}

// EvaluatorLogger receives evaluation events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc lets a plain function act as an EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	f(event)
}

// FailuresOnly forwards the events of failed tags to logger.
func FailuresOnly(logger EvaluatorLogger) EvaluatorLogger {
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		if event.Failed() {
			logger.LogEvaluation(event)
		}
	})
}

// WithEvaluatorLogger reports every evaluated tag to logger. Nil turns
// reporting off.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *bindingConfig) {
		cfg.logger = logger
	}
}
