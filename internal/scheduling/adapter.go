package scheduling

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

// Placement pins an activity to a start cell in the grid.
type Placement struct {
	Day  int
	Slot int
}

// Schedule is the solved assignment: at most one placement per activity,
// indexed by the activity's position in the grid.
type Schedule struct {
	Days       int
	Status     Status
	Placements []*Placement
}

// At reports whether the given activity starts at (day, slot).
func (s Schedule) At(activity, day, slot int) bool {
	if activity < 0 || activity >= len(s.Placements) {
		return false
	}
	p := s.Placements[activity]
	return p != nil && p.Day == day && p.Slot == slot
}

// ScheduledCount returns how many activities received a placement.
func (s Schedule) ScheduledCount() int {
	count := 0
	for _, p := range s.Placements {
		if p != nil {
			count++
		}
	}
	return count
}

// Adapter translates availability grids into solver models and solver
// solutions back into schedules.
type Adapter struct {
	solver Solver
	buffer int
	logger *zap.Logger
}

// NewAdapter wires the adapter to a solver backend. A missing backend is a
// configuration error that must abort the caller, not a degraded result.
func NewAdapter(solver Solver, bufferSlots int, logger *zap.Logger) (*Adapter, error) {
	if solver == nil {
		return nil, appErrors.Clone(appErrors.ErrSolverUnavailable, "schedule solver backend is not configured")
	}
	if bufferSlots < 0 {
		bufferSlots = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{solver: solver, buffer: bufferSlots, logger: logger}, nil
}

// BuildSchedule solves the grid and returns the chosen placements. An
// infeasible or timed-out-empty outcome degrades to an empty schedule; it is
// logged but not an error. Grid shape violations are precondition failures
// rejected before the model is built.
func (a *Adapter) BuildSchedule(ctx context.Context, grid Grid) (Schedule, error) {
	days := len(grid.Days)
	schedule := Schedule{Days: days, Status: StatusOptimal, Placements: make([]*Placement, len(grid.Activities))}
	if grid.Empty() {
		return schedule, nil
	}
	if err := validateGrid(grid); err != nil {
		return Schedule{}, err
	}

	model := Model{Horizon: days * SlotsPerDay}
	for i, activity := range grid.Activities {
		var starts []int
		for d := 0; d < days; d++ {
			for slot := 0; slot < SlotsPerDay; slot++ {
				if activity.Available[d][slot] {
					starts = append(starts, d*SlotsPerDay+slot)
				}
			}
		}
		// Activities with no available slot stay out of the model entirely so
		// they can never cause infeasibility.
		if len(starts) == 0 {
			continue
		}
		model.Intervals = append(model.Intervals, IntervalVar{
			Index:  i,
			Starts: starts,
			Length: activity.DurationSlots + a.buffer,
			Weight: activity.Score,
		})
	}
	if len(model.Intervals) == 0 {
		return schedule, nil
	}

	solution, err := a.solver.Solve(ctx, model)
	if err != nil {
		return Schedule{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule solver failed")
	}

	schedule.Status = solution.Status
	switch solution.Status {
	case StatusOptimal, StatusFeasible:
	default:
		a.logger.Warn("solver returned no assignment, degrading to empty schedule",
			zap.String("status", solution.Status.String()),
			zap.Int("activities", len(model.Intervals)),
			zap.Int("horizon", model.Horizon))
		return schedule, nil
	}

	for index, start := range solution.Starts {
		day := start / SlotsPerDay
		slot := start % SlotsPerDay
		if index < 0 || index >= len(grid.Activities) || day >= days || !grid.Activities[index].Available[day][slot] {
			return Schedule{}, appErrors.Wrap(
				fmt.Errorf("assignment (%d, %d, %d) outside availability", index, day, slot),
				appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
				"solver assignment violates availability")
		}
		schedule.Placements[index] = &Placement{Day: day, Slot: slot}
	}

	a.logger.Debug("schedule solved",
		zap.String("status", solution.Status.String()),
		zap.Int("scheduled", schedule.ScheduledCount()),
		zap.Int("objective", solution.Objective))
	return schedule, nil
}

func validateGrid(grid Grid) error {
	days := len(grid.Days)
	for i, activity := range grid.Activities {
		if len(activity.Available) != days || len(activity.StartTimes) != days {
			return appErrors.Clone(appErrors.ErrPreconditionFailed,
				fmt.Sprintf("activity %d grid has mismatched day count", i))
		}
		for d := 0; d < days; d++ {
			if len(activity.Available[d]) != SlotsPerDay || len(activity.StartTimes[d]) != SlotsPerDay {
				return appErrors.Clone(appErrors.ErrPreconditionFailed,
					fmt.Sprintf("activity %d grid has mismatched slot count on day %d", i, d))
			}
		}
		if activity.DurationSlots < 1 {
			return appErrors.Clone(appErrors.ErrPreconditionFailed,
				fmt.Sprintf("activity %d has non-positive duration", i))
		}
	}
	return nil
}
