// Package errors provides sentinel errors and custom error types for the slotting application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrInvalidProblem indicates malformed or empty input to the problem model
	ErrInvalidProblem = errors.New("invalid problem")

	// ErrInfeasible indicates that no assignment satisfies all constraints
	ErrInfeasible = errors.New("problem is infeasible")

	// ErrTimedOut indicates that a solve stopped at a limit before proving optimality
	ErrTimedOut = errors.New("solve timed out")

	// ErrValidationFailed indicates that a returned assignment violates an invariant
	ErrValidationFailed = errors.New("solution validation failed")

	// ErrCheckpointMismatch indicates that a checkpoint was taken from a different problem
	ErrCheckpointMismatch = errors.New("checkpoint does not match problem")

	// ErrOutputExists indicates that an output file exists and overwriting was not confirmed
	ErrOutputExists = errors.New("output file already exists")
)

// InvalidProblemError represents a malformed item, shelf or option
type InvalidProblemError struct {
	Field  string
	ID     string
	Detail string
}

func (e *InvalidProblemError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid problem: %s %q: %s", e.Field, e.ID, e.Detail)
	}
	return fmt.Sprintf("invalid problem: %s: %s", e.Field, e.Detail)
}

// Is returns true if the target error is ErrInvalidProblem
func (e *InvalidProblemError) Is(target error) bool {
	return target == ErrInvalidProblem
}

// NewInvalidProblemError creates a new InvalidProblemError
func NewInvalidProblemError(field, id, detail string) *InvalidProblemError {
	return &InvalidProblemError{Field: field, ID: id, Detail: detail}
}

// InfeasibleError represents a solve that ended without any feasible assignment.
// Proven is false when a time or node limit stopped the search first.
type InfeasibleError struct {
	Proven bool
	Detail string
}

func (e *InfeasibleError) Error() string {
	msg := "problem is infeasible"
	if !e.Proven {
		msg = "no feasible assignment found before the search limit"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is returns true if the target error is ErrInfeasible
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}

// NewInfeasibleError creates a new InfeasibleError
func NewInfeasibleError(proven bool, detail string) *InfeasibleError {
	return &InfeasibleError{Proven: proven, Detail: detail}
}

// TimedOutError is returned alongside a best-found assignment when the search was cut short
type TimedOutError struct {
	Reason        string
	Objective     float64
	LowerBound    float64
	HasLowerBound bool
}

func (e *TimedOutError) Error() string {
	if e.HasLowerBound {
		return fmt.Sprintf("solve stopped (%s): best objective %g, lower bound %g", e.Reason, e.Objective, e.LowerBound)
	}
	return fmt.Sprintf("solve stopped (%s): best objective %g", e.Reason, e.Objective)
}

// Is returns true if the target error is ErrTimedOut
func (e *TimedOutError) Is(target error) bool {
	return target == ErrTimedOut
}

// Invariant names a constraint of a feasible assignment
type Invariant string

// Invariants checked by the validator
const (
	InvariantExactlyOne Invariant = "exactly-one"
	InvariantCapacity   Invariant = "capacity"
	InvariantSlotLimit  Invariant = "slot-limit"
	InvariantIntegral   Invariant = "integrality"
)

// ValidationError represents an invariant violated by a candidate assignment
type ValidationError struct {
	Invariant Invariant
	Detail    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("solution validation failed: %s: %s", e.Invariant, e.Detail)
}

// Is returns true if the target error is ErrValidationFailed
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError
func NewValidationError(invariant Invariant, format string, args ...any) *ValidationError {
	return &ValidationError{
		Invariant: invariant,
		Detail:    fmt.Sprintf(format, args...),
	}
}

// CheckpointMismatchError represents a resume attempt against a different problem
type CheckpointMismatchError struct {
	Want uint64
	Got  uint64
}

func (e *CheckpointMismatchError) Error() string {
	return fmt.Sprintf("checkpoint does not match problem (fingerprint %016x, problem %016x)", e.Got, e.Want)
}

// Is returns true if the target error is ErrCheckpointMismatch
func (e *CheckpointMismatchError) Is(target error) bool {
	return target == ErrCheckpointMismatch
}
