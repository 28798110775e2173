package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

// ScheduledActivity is one placed activity with concrete calendar timestamps.
type ScheduledActivity struct {
	ActivityDetails
	Start time.Time
	End   time.Time
}

// DayPlan holds the activities scheduled on one calendar day. Days without
// activities are still emitted with an empty list.
type DayPlan struct {
	Date       time.Time
	Activities []ScheduledActivity
}

// AssembleDayPlans projects the solved schedule back onto the calendar, one
// day plan per horizon day in ascending date order. Activities are appended
// in increasing index then slot order; presentation-layer sorting by start
// time is the caller's concern.
func AssembleDayPlans(activities []Activity, grid Grid, schedule Schedule) ([]DayPlan, error) {
	if len(activities) != len(grid.Activities) || len(schedule.Placements) != len(grid.Activities) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "activity metadata does not align with the solved grid")
	}

	plans := make([]DayPlan, len(grid.Days))
	for d, date := range grid.Days {
		plans[d] = DayPlan{Date: date, Activities: []ScheduledActivity{}}
		for a := range grid.Activities {
			placement := schedule.Placements[a]
			if placement == nil || placement.Day != d {
				continue
			}
			startTime := grid.Activities[a].StartTimes[d][placement.Slot]
			if startTime == "" {
				// A placement without a mapped start time means the mapper and
				// solver outputs diverged; that is a bug, not bad input.
				return nil, appErrors.Wrap(
					fmt.Errorf("no start time for activity %d at day %d slot %d", a, d, placement.Slot),
					appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
					"schedule references an unmapped start time")
			}
			start, err := combineDateTime(date, startTime)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "malformed start time in grid")
			}
			details := activities[a].Details
			plans[d].Activities = append(plans[d].Activities, ScheduledActivity{
				ActivityDetails: details,
				Start:           start,
				End:             start.Add(time.Duration(details.DurationMinutes) * time.Minute),
			})
		}
	}
	return plans, nil
}

func combineDateTime(date time.Time, clock string) (time.Time, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid clock time %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid minute in %q", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
