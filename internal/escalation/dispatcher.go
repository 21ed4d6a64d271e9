package escalation

import (
	"context"
	"log/slog"
	"time"

	"github.com/aquaguardian/aquaguardian/pkg/lifecycle"
)

// TaskTimeout bounds a single background effect. Expiry is treated like any
// other collaborator failure: logged, never retried.
const TaskTimeout = 2 * time.Minute

// Dispatcher runs background effects bound to the application lifecycle
// context. Tasks scheduled after shutdown begins are cancelled by that
// context; there is no retry or dead-letter, only a typed outcome log line
// per task.
type Dispatcher struct {
	ctx    context.Context
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher bound to the coordinator's context.
func NewDispatcher(lc *lifecycle.Coordinator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:    lc.Context(),
		logger: logger.With("system", "escalation"),
	}
}

// Dispatch schedules fn on a new goroutine with a bounded context. The task
// name appears in both outcome log lines.
func (d *Dispatcher) Dispatch(task string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(d.ctx, TaskTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.logger.Warn("background task failed", "task", task, "error", err)
			return
		}

		d.logger.Info("background task completed", "task", task)
	}()
}
