package middleware

import (
	"log/slog"
	"time"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
)

// Logging returns hooks that log reaction runs at debug level and failed
// runs at error level. A nil logger uses slog.Default().
func Logging(logger *slog.Logger) reactive.Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &logHooks{logger: logger}
}

type logHooks struct {
	reactive.NopHooks
	logger *slog.Logger
}

func (h *logHooks) Triggered(op *reactive.Operation, affected int) {
	h.logger.Debug("reactive: trigger",
		"op", op.Kind.String(),
		"key", op.Key,
		"affected", affected,
	)
}

func (h *logHooks) ReactionStarted(r *reactive.Reaction, op *reactive.Operation) func(bool) {
	start := time.Now()
	return func(failed bool) {
		attrs := []any{
			"reaction", r.ID(),
			"name", r.Name(),
			"op", opLabel(op),
			"duration", time.Since(start),
		}
		if failed {
			h.logger.Error("reactive: reaction panicked", attrs...)
			return
		}
		h.logger.Debug("reactive: reaction ran", attrs...)
	}
}
