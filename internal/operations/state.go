package operations

import (
	"sync"
	"time"
)

// OperationStatus represents the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState is the shared state of one operation execution
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	steps []*StepState
	// Context passes data between steps
	context map[string]any
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:      id,
		Status:  OperationStatusPending,
		context: make(map[string]any),
	}
}

func (p *OperationState) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

func (p *OperationState) finish(status OperationStatus, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = status
	p.Error = err
}

func (p *OperationState) addStep(s *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, s)
}

// GetStep returns the state of a specific step
func (p *OperationState) GetStep(id string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Note sets the message of the active step.
func (p *OperationState) Note(message string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, s := range p.steps {
		s.mu.Lock()
		if s.Status == StepStatusActive {
			s.Message = message
		}
		s.mu.Unlock()
	}
}

// GetContext retrieves a value from the operation context
func (p *OperationState) GetContext(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (p *OperationState) SetContext(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.context[key] = value
}

// ContextValue returns the context value under key when it has type T.
func ContextValue[T any](p *OperationState, key string) (T, bool) {
	var zero T
	v, ok := p.GetContext(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Duration returns the elapsed time of the operation
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.StartTime.IsZero() {
		return 0
	}
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// Snapshot returns a copy safe to serialize.
func (p *OperationState) Snapshot() OperationSnapshot {
	duration := p.Duration()

	p.mu.RLock()
	defer p.mu.RUnlock()
	snap := OperationSnapshot{
		ID:       p.ID,
		Status:   p.Status,
		Duration: duration.String(),
		Steps:    make([]StepSnapshot, len(p.steps)),
	}
	if !p.StartTime.IsZero() {
		snap.StartTime = p.StartTime.UTC().Format(time.RFC3339)
	}
	for i, s := range p.steps {
		snap.Steps[i] = s.Snapshot()
	}
	if p.Error != nil {
		snap.Error = p.Error.Error()
	}
	return snap
}

// OperationSnapshot is the serialized view of an operation.
type OperationSnapshot struct {
	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime string          `json:"start_time,omitempty"`
	Duration  string          `json:"duration"`
	Steps     []StepSnapshot  `json:"steps"`
	Error     string          `json:"error,omitempty"`
}
