package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gstattrade/internal/infrastructure"
)

// Manager executes operations sequentially and remembers the most recent
// one.
type Manager struct {
	logger *slog.Logger
	tracer trace.Tracer

	mu      sync.RWMutex
	current *OperationState
}

// NewManager creates a manager. A nil tracer disables spans.
func NewManager(logger *slog.Logger, tracer trace.Tracer) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Manager{
		logger: infrastructure.WithComponent(logger, "operations"),
		tracer: tracer,
	}
}

// Current returns the operation in progress or the last one executed, or
// nil before the first Execute.
func (m *Manager) Current() *OperationState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Execute runs steps in order. The first failing step fails the operation
// and the rest are skipped. ErrStopOperation from a step completes the
// operation early.
func (m *Manager) Execute(ctx context.Context, id string, steps []Step) (*OperationState, error) {
	state := NewOperationState(id)
	for _, s := range steps {
		state.addStep(NewStepState(s.ID(), s.Name()))
	}

	m.mu.Lock()
	m.current = state
	m.mu.Unlock()

	ctx, span := m.tracer.Start(ctx, "operation.execute", trace.WithAttributes(
		attribute.String("operation.id", id),
		attribute.Int("operation.steps", len(steps)),
	))
	defer span.End()

	state.start()
	m.logger.InfoContext(ctx, "Operation started",
		slog.String("operation_id", id),
		slog.Int("step_count", len(steps)))

	err := m.executeSequential(ctx, state, steps)
	switch {
	case err == nil:
		state.finish(OperationStatusCompleted, nil)
		m.logger.InfoContext(ctx, "Operation completed",
			slog.String("operation_id", id),
			slog.Duration("duration", state.Duration()))
	case ctx.Err() != nil:
		state.finish(OperationStatusCancelled, err)
		m.logger.WarnContext(ctx, "Operation cancelled", slog.String("operation_id", id))
	default:
		state.finish(OperationStatusFailed, err)
		infrastructure.RecordError(ctx, err)
		m.logger.ErrorContext(ctx, "Operation failed",
			slog.String("operation_id", id),
			slog.String("error", err.Error()))
	}

	return state, err
}

func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		stepState := state.GetStep(step.ID())

		if err := ctx.Err(); err != nil {
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		m.logger.InfoContext(ctx, "Executing step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		stepState.Start()
		err := m.executeStep(ctx, state, step)

		if errors.Is(err, ErrStopOperation) {
			stepState.Complete()
			m.logger.InfoContext(ctx, "Operation stopped early",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("stopped by %s", step.ID()))
			return nil
		}
		if err != nil {
			stepState.Fail(err)
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}

		stepState.Complete()
		m.logger.InfoContext(ctx, "Step completed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()))
	}
	return nil
}

// executeStep runs one step in its own span and converts a panic into an
// error.
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) (err error) {
	ctx, span := m.tracer.Start(ctx, "operation.step", trace.WithAttributes(
		attribute.String("step.id", step.ID()),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = &OperationError{Type: ErrorTypePanic, Step: step.ID(), Cause: fmt.Errorf("%v", r)}
		}
		if err != nil && !errors.Is(err, ErrStopOperation) {
			infrastructure.RecordError(ctx, err)
		}
	}()

	if err := step.Execute(ctx, state); err != nil {
		if errors.Is(err, ErrStopOperation) {
			return err
		}
		return NewExecutionError(step.ID(), err)
	}
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, s := range steps {
		if st := state.GetStep(s.ID()); st != nil {
			st.Skip(reason)
		}
	}
}
