package scheduling

import (
	"context"
	"sort"
	"time"
)

// Status reports the solver outcome.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

// String returns the canonical status name.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// IntervalVar is one optional fixed-length interval in the model. Starts is
// the domain of permitted absolute start slots; the interval is active only
// when the solver decides to schedule it.
type IntervalVar struct {
	Index  int
	Starts []int
	Length int
	Weight int
}

// Model is the declarative input to a Solver: optional intervals on a single
// linear timeline, a global no-overlap constraint across active intervals,
// and a linear objective maximizing the total weight of active intervals.
type Model struct {
	Horizon   int
	Intervals []IntervalVar
}

// Solution carries the solver status and, for OPTIMAL/FEASIBLE outcomes, the
// chosen absolute start slot per scheduled interval index.
type Solution struct {
	Status    Status
	Starts    map[int]int
	Objective int
}

// Solver abstracts the constraint backend so alternative engines can be
// substituted without touching the mapper or the assembler.
type Solver interface {
	Solve(ctx context.Context, model Model) (Solution, error)
}

// BranchBoundSolver is the in-process backend: depth-first branch and bound
// over interval placements with an upper-bound prune on remaining weight.
// Ties between equal-objective assignments break deterministically toward
// lower interval index and earlier start.
type BranchBoundSolver struct {
	timeout time.Duration
}

// NewBranchBoundSolver builds the default solver with the given time budget.
func NewBranchBoundSolver(timeout time.Duration) *BranchBoundSolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BranchBoundSolver{timeout: timeout}
}

type span struct {
	start int
	end   int
}

type bbSearch struct {
	vars     []IntervalVar
	suffix   []int
	deadline time.Time
	nodes    int
	timedOut bool

	active  []span
	chosen  map[int]int
	best    int
	bestSet map[int]int
}

// Solve runs the branch-and-bound search. It never returns INFEASIBLE for this
// model family: leaving every interval inactive is always a feasible (empty)
// assignment. A timeout downgrades the result to FEASIBLE.
func (s *BranchBoundSolver) Solve(ctx context.Context, model Model) (Solution, error) {
	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// Highest weight first so the bound prunes aggressively; index order keeps
	// the search deterministic among equal weights.
	vars := make([]IntervalVar, len(model.Intervals))
	copy(vars, model.Intervals)
	sort.SliceStable(vars, func(i, j int) bool {
		return vars[i].Weight > vars[j].Weight
	})

	suffix := make([]int, len(vars)+1)
	for i := len(vars) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + vars[i].Weight
	}

	search := &bbSearch{
		vars:     vars,
		suffix:   suffix,
		deadline: deadline,
		chosen:   make(map[int]int),
		best:     -1,
		bestSet:  make(map[int]int),
	}
	search.descend(0, 0)

	status := StatusOptimal
	if search.timedOut {
		status = StatusFeasible
	}
	return Solution{Status: status, Starts: search.bestSet, Objective: search.best}, nil
}

func (b *bbSearch) descend(i, gain int) {
	if b.timedOut {
		return
	}
	b.nodes++
	if b.nodes%1024 == 0 && time.Now().After(b.deadline) {
		b.timedOut = true
		return
	}
	if gain+b.suffix[i] <= b.best {
		return
	}
	if i == len(b.vars) {
		if gain > b.best {
			b.best = gain
			b.bestSet = make(map[int]int, len(b.chosen))
			for k, v := range b.chosen {
				b.bestSet[k] = v
			}
		}
		return
	}

	v := b.vars[i]
	for _, start := range v.Starts {
		if !b.fits(start, start+v.Length) {
			continue
		}
		b.active = append(b.active, span{start: start, end: start + v.Length})
		b.chosen[v.Index] = start
		b.descend(i+1, gain+v.Weight)
		delete(b.chosen, v.Index)
		b.active = b.active[:len(b.active)-1]
		if b.timedOut {
			return
		}
	}

	// Leave this interval inactive.
	b.descend(i+1, gain)
}

func (b *bbSearch) fits(start, end int) bool {
	for _, s := range b.active {
		if start < s.end && s.start < end {
			return false
		}
	}
	return true
}
