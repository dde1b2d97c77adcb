package engine

import (
	"math"
	"time"

	"slotting.dev/slotting/internal/model"
)

// Status is how a solve ended
type Status int

const (
	// StatusOptimal means the search space was exhausted
	StatusOptimal Status = iota
	// StatusTimedOut means a limit stopped the search with an incumbent in hand
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Stop reasons
const (
	ReasonTimeLimit = "time limit"
	ReasonNodeLimit = "node limit"
	ReasonCanceled  = "canceled"
)

// Stats counts what the search did
type Stats struct {
	Created          int64         `json:"created" yaml:"created"`
	Relaxed          int64         `json:"relaxed" yaml:"relaxed"`
	Pruned           int64         `json:"pruned" yaml:"pruned"`
	Infeasible       int64         `json:"infeasible" yaml:"infeasible"`
	Branched         int64         `json:"branched" yaml:"branched"`
	Integral         int64         `json:"integral" yaml:"integral"`
	IncumbentUpdates int64         `json:"incumbent_updates" yaml:"incumbent_updates"`
	Fallbacks        int64         `json:"fallbacks" yaml:"fallbacks"`
	// Oversized counts subproblems too large for the simplex, bounded combinatorially
	Oversized        int64         `json:"oversized" yaml:"oversized"`
	Elapsed          time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Result is the outcome of a solve that found at least one feasible assignment
type Result struct {
	Assignment    model.Assignment
	Objective     float64
	Status        Status
	StopReason    string
	LowerBound    float64
	HasLowerBound bool
	Stats         Stats
	// Frontier is non-nil when the search stopped early
	Frontier *Frontier
}

// Gap returns the relative distance between the objective and the lower bound.
// It is zero for optimal results.
func (r *Result) Gap() float64 {
	if r.Status == StatusOptimal || !r.HasLowerBound {
		return 0
	}
	diff := r.Objective - r.LowerBound
	if diff <= 0 {
		return 0
	}
	return diff / math.Max(math.Abs(r.Objective), 1e-12)
}

// Decision fixes one variable to zero or one
type Decision struct {
	Var int  `yaml:"var"`
	One bool `yaml:"one"`
}

// OpenNode is an unexplored subproblem
type OpenNode struct {
	Decisions []Decision `yaml:"decisions"`
	Bound     float64    `yaml:"bound"`
}

// Frontier is the state needed to resume a stopped search
type Frontier struct {
	Fingerprint uint64           `yaml:"fingerprint"`
	Nodes       []OpenNode       `yaml:"nodes"`
	Incumbent   model.Assignment `yaml:"incumbent,omitempty"`
	Objective   float64          `yaml:"objective"`
}

// Progress is a snapshot of a running search
type Progress struct {
	Nodes        int64
	Open         int
	Incumbent    float64
	HasIncumbent bool
	Bound        float64
	HasBound     bool
	Elapsed      time.Duration
}
