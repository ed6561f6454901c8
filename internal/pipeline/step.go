package pipeline

import (
	"time"
)

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// Step identifiers
const (
	StepLoad  = "load"
	StepBuild = "build"
)

// StepState represents the runtime state of a step
type StepState struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Error     error                  `json:"-"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a new step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the step as active at now
func (s *StepState) Start(now time.Time) {
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed at now
func (s *StepState) Complete(now time.Time) {
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed at now with the given error
func (s *StepState) Fail(now time.Time, err error) {
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// SetMetadata records a value on the step
func (s *StepState) SetMetadata(key string, value interface{}) {
	s.Metadata[key] = value
}

// Duration returns the elapsed time of a finished step, or zero
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(*s.StartTime)
}
