package observability

import (
	"log/slog"

	"github.com/aretw0/turtle/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that write structured log lines.
// Per-command events are logged at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurtleCreated: func(e *domain.TurtleEvent) {
			logger.Info("turtle_created", domain.KeyTurtleID, e.Turtle.String())
		},
		OnTurtleRemoved: func(e *domain.TurtleEvent) {
			logger.Info("turtle_removed", domain.KeyTurtleID, e.Turtle.String())
		},
		OnCommandComplete: func(e *domain.CommandEvent) {
			logger.Debug("command_complete",
				domain.KeyTurtleID, e.Turtle.String(),
				domain.KeyCommand, e.Command,
				domain.KeyIndex, e.Index,
				"instant", e.Instant,
			)
		},
		OnFillComplete: func(e *domain.FillEvent) {
			logger.Debug("fill_complete",
				domain.KeyTurtleID, e.Turtle.String(),
				"contours", e.Contours,
				"points", e.Points,
			)
		},
		OnBatchDropped: func(e *domain.BatchEvent) {
			logger.Warn("batch_dropped",
				domain.KeyTurtleID, e.Turtle.String(),
				"commands", e.Commands,
				"reason", e.Reason,
			)
		},
	}
}
