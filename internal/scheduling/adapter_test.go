package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSolver struct {
	solution Solution
	err      error
	model    *Model
}

func (s *stubSolver) Solve(_ context.Context, model Model) (Solution, error) {
	s.model = &model
	return s.solution, s.err
}

func emptyGridActivity(days int) GridActivity {
	ga := GridActivity{
		Score:         10,
		DurationSlots: 1,
		Available:     make([][]bool, days),
		StartTimes:    make([][]string, days),
	}
	for d := 0; d < days; d++ {
		ga.Available[d] = make([]bool, SlotsPerDay)
		ga.StartTimes[d] = make([]string, SlotsPerDay)
	}
	return ga
}

func testGrid(t *testing.T, days int, activities ...GridActivity) Grid {
	t.Helper()
	grid := Grid{Activities: activities}
	start, err := time.Parse(DateLayout, "2025-07-01")
	require.NoError(t, err)
	for d := 0; d < days; d++ {
		grid.Days = append(grid.Days, start.AddDate(0, 0, d))
	}
	return grid
}

func TestNewAdapterRequiresSolver(t *testing.T) {
	_, err := NewAdapter(nil, 3, nil)
	require.Error(t, err)
}

func TestAdapterPicksHigherRatedOnConflict(t *testing.T) {
	// Two activities, both only available at slot 0 of a single day, ratings
	// 5 and 3: the higher rated one must win.
	strong := emptyGridActivity(1)
	strong.Score = 5
	strong.Available[0][0] = true
	strong.StartTimes[0][0] = "06:00"

	weak := emptyGridActivity(1)
	weak.Score = 3
	weak.Available[0][0] = true
	weak.StartTimes[0][0] = "06:00"

	adapter, err := NewAdapter(NewBranchBoundSolver(time.Second), 3, nil)
	require.NoError(t, err)

	schedule, err := adapter.BuildSchedule(context.Background(), testGrid(t, 1, strong, weak))
	require.NoError(t, err)
	assert.True(t, schedule.At(0, 0, 0))
	assert.Nil(t, schedule.Placements[1])
	assert.Equal(t, 1, schedule.ScheduledCount())
}

func TestAdapterEmptyGridAndAllFalseCube(t *testing.T) {
	adapter, err := NewAdapter(NewBranchBoundSolver(time.Second), 3, nil)
	require.NoError(t, err)

	schedule, err := adapter.BuildSchedule(context.Background(), Grid{})
	require.NoError(t, err)
	assert.Equal(t, 0, schedule.ScheduledCount())

	schedule, err = adapter.BuildSchedule(context.Background(), testGrid(t, 2, emptyGridActivity(2)))
	require.NoError(t, err)
	assert.Equal(t, 0, schedule.ScheduledCount())
	assert.Nil(t, schedule.Placements[0])
}

func TestAdapterRejectsMisalignedGrid(t *testing.T) {
	adapter, err := NewAdapter(NewBranchBoundSolver(time.Second), 3, nil)
	require.NoError(t, err)

	broken := emptyGridActivity(1)
	_, err = adapter.BuildSchedule(context.Background(), testGrid(t, 2, broken))
	require.Error(t, err)

	short := emptyGridActivity(1)
	short.Available[0] = short.Available[0][:5]
	_, err = adapter.BuildSchedule(context.Background(), testGrid(t, 1, short))
	require.Error(t, err)
}

func TestAdapterDegradesOnInfeasibleOrUnknown(t *testing.T) {
	active := emptyGridActivity(1)
	active.Available[0][3] = true
	active.StartTimes[0][3] = "09:00"

	for _, status := range []Status{StatusInfeasible, StatusUnknown} {
		solver := &stubSolver{solution: Solution{Status: status}}
		adapter, err := NewAdapter(solver, 3, nil)
		require.NoError(t, err)

		schedule, err := adapter.BuildSchedule(context.Background(), testGrid(t, 1, active))
		require.NoError(t, err, "status %s must not surface as an error", status)
		assert.Equal(t, 0, schedule.ScheduledCount())
	}
}

func TestAdapterRejectsAssignmentOutsideAvailability(t *testing.T) {
	active := emptyGridActivity(1)
	active.Available[0][3] = true
	active.StartTimes[0][3] = "09:00"

	solver := &stubSolver{solution: Solution{Status: StatusOptimal, Starts: map[int]int{0: 7}}}
	adapter, err := NewAdapter(solver, 3, nil)
	require.NoError(t, err)

	_, err = adapter.BuildSchedule(context.Background(), testGrid(t, 1, active))
	require.Error(t, err)
}

func TestAdapterBuffersIntervalLengthAndDomains(t *testing.T) {
	activity := emptyGridActivity(2)
	activity.DurationSlots = 2
	activity.Available[1][4] = true
	activity.StartTimes[1][4] = "10:00"

	hollow := emptyGridActivity(2)

	solver := &stubSolver{solution: Solution{Status: StatusOptimal, Starts: map[int]int{}}}
	adapter, err := NewAdapter(solver, 3, nil)
	require.NoError(t, err)

	_, err = adapter.BuildSchedule(context.Background(), testGrid(t, 2, activity, hollow))
	require.NoError(t, err)
	require.NotNil(t, solver.model)
	require.Len(t, solver.model.Intervals, 1, "activities without availability stay out of the model")

	iv := solver.model.Intervals[0]
	assert.Equal(t, 0, iv.Index)
	assert.Equal(t, []int{SlotsPerDay + 4}, iv.Starts)
	assert.Equal(t, 5, iv.Length, "duration plus turnaround buffer")
}

func TestScheduleContainmentAndAtMostOnce(t *testing.T) {
	first := emptyGridActivity(2)
	second := emptyGridActivity(2)
	for d := 0; d < 2; d++ {
		for _, slot := range []int{0, 6, 12} {
			first.Available[d][slot] = true
			first.StartTimes[d][slot] = SlotTime(slot)
			second.Available[d][slot] = true
			second.StartTimes[d][slot] = SlotTime(slot)
		}
	}

	adapter, err := NewAdapter(NewBranchBoundSolver(time.Second), 3, nil)
	require.NoError(t, err)

	grid := testGrid(t, 2, first, second)
	schedule, err := adapter.BuildSchedule(context.Background(), grid)
	require.NoError(t, err)

	for a, placement := range schedule.Placements {
		if placement == nil {
			continue
		}
		assert.True(t, grid.Activities[a].Available[placement.Day][placement.Slot],
			"placement for activity %d must lie inside its availability", a)
	}
	assert.Equal(t, 2, schedule.ScheduledCount(), "both activities fit the two-day horizon")
}
