package operations

import (
	"context"
	"sync"
	"time"
)

// Step is a single unit of work in an operation.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the shared operation state
	Execute(ctx context.Context, state *OperationState) error
}

type funcStep struct {
	id   string
	name string
	fn   func(ctx context.Context, state *OperationState) error
}

// NewStep adapts a function to the Step interface.
func NewStep(id, name string, fn func(ctx context.Context, state *OperationState) error) Step {
	return &funcStep{id: id, name: name, fn: fn}
}

func (s *funcStep) ID() string   { return s.id }
func (s *funcStep) Name() string { return s.name }

func (s *funcStep) Execute(ctx context.Context, state *OperationState) error {
	return s.fn(ctx, state)
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Error     error
}

// NewStepState creates a pending step state
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StepStatusSkipped
	s.Message = reason
}

// Snapshot returns a copy safe to serialize.
func (s *StepState) Snapshot() StepSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := StepSnapshot{
		ID:      s.ID,
		Name:    s.Name,
		Status:  s.Status,
		Message: s.Message,
	}
	if s.StartTime != nil && s.EndTime != nil {
		snap.Duration = s.EndTime.Sub(*s.StartTime).String()
	}
	if s.Error != nil {
		snap.Error = s.Error.Error()
	}
	return snap
}

// StepSnapshot is the serialized view of a step.
type StepSnapshot struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   StepStatus `json:"status"`
	Message  string     `json:"message,omitempty"`
	Duration string     `json:"duration,omitempty"`
	Error    string     `json:"error,omitempty"`
}
