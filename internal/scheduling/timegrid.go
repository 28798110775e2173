package scheduling

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SlotsPerDay is the number of hourly slots in the planning day. Slot 0 opens
// at 06:00 and indices wrap through the night, so slot 18 is midnight and
// slot 23 is 05:00. Absolute-slot arithmetic (day*SlotsPerDay+slot) relies on
// this ordering.
const SlotsPerDay = 24

// DateLayout is the calendar date format used by provider payloads.
const DateLayout = "2006-01-02"

const slotAnchorHour = 6

// farFuture stands in for an absent season end date.
var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

var weekdayIndex = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
	"SUNDAY":    time.Sunday,
}

// SlotTime returns the clock time at which the given slot begins.
func SlotTime(slot int) string {
	if slot < 0 || slot >= SlotsPerDay {
		return ""
	}
	hour := (slot + slotAnchorHour) % 24
	return formatClock(hour, 0)
}

// SlotForTime resolves a "HH:MM" start time to its slot index. Minutes are
// bucketed into the enclosing hour slot.
func SlotForTime(raw string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return (hour - slotAnchorHour + 24) % 24, true
}

func formatClock(hour, minute int) string {
	return twoDigits(hour) + ":" + twoDigits(minute)
}

func twoDigits(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

// TimeEntry is one daily start time within a window, with its blackout dates.
type TimeEntry struct {
	StartTime     string
	BlackoutDates []string
}

// Window is a provider-declared season during which a weekly availability
// pattern applies. An empty SeasonEnd means the season is open-ended.
type Window struct {
	SeasonStart string
	SeasonEnd   string
	Weekdays    []string
	Entries     []TimeEntry
}

// Rating carries the provider review summary for an activity.
type Rating struct {
	Average float64
	Count   int
}

// ActivityDetails holds the pass-through metadata carried into day plans.
type ActivityDetails struct {
	ProviderID      string
	Title           string
	Description     string
	AvgRating       float64
	ReviewCount     int
	DurationMinutes int
	PriceAmount     float64
	PriceCurrency   string
	Images          []string
	BookingURL      string
}

// Activity is one candidate activity entering the planning pipeline. The
// ordered slice of activities is the single source of truth; every derived
// structure is indexed by position in that slice.
type Activity struct {
	Details ActivityDetails
	Rating  Rating
	Windows []Window
}

// GridActivity is the dense per-day/per-slot availability derived for one
// activity, together with its scalar planning inputs.
type GridActivity struct {
	Score         int
	DurationSlots int
	Available     [][]bool
	StartTimes    [][]string
}

// Grid is the mapper output consumed by the solver adapter and the day-plan
// assembler.
type Grid struct {
	Days       []time.Time
	Activities []GridActivity
}

// Empty reports whether the grid holds no schedulable content.
func (g Grid) Empty() bool {
	return len(g.Days) == 0 || len(g.Activities) == 0
}

// Mapper converts raw provider availability windows into dense grids.
type Mapper struct {
	logger *zap.Logger
}

// NewMapper constructs a grid mapper.
func NewMapper(logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{logger: logger}
}

// Build derives the availability grid for the inclusive minDate..maxDate
// horizon. An empty activity list or an unset horizon yields an empty grid,
// which is a valid outcome rather than an error. Malformed dates and unknown
// weekday names are skipped per entry.
func (m *Mapper) Build(activities []Activity, minDate, maxDate time.Time) Grid {
	if len(activities) == 0 || minDate.IsZero() || maxDate.IsZero() || maxDate.Before(minDate) {
		return Grid{}
	}

	days := horizonDays(minDate, maxDate)
	grid := Grid{
		Days:       days,
		Activities: make([]GridActivity, len(activities)),
	}

	for i, activity := range activities {
		ga := GridActivity{
			Score:         SmoothedScore(activity.Rating),
			DurationSlots: durationSlots(activity.Details.DurationMinutes),
			Available:     make([][]bool, len(days)),
			StartTimes:    make([][]string, len(days)),
		}
		for d := range days {
			ga.Available[d] = make([]bool, SlotsPerDay)
			ga.StartTimes[d] = make([]string, SlotsPerDay)
		}
		for _, window := range activity.Windows {
			m.applyWindow(&ga, days, window)
		}
		grid.Activities[i] = ga
	}

	return grid
}

func (m *Mapper) applyWindow(ga *GridActivity, days []time.Time, window Window) {
	seasonStart, err := time.Parse(DateLayout, window.SeasonStart)
	if err != nil {
		m.logger.Debug("skipping window with malformed season start",
			zap.String("season_start", window.SeasonStart))
		return
	}
	seasonEnd := farFuture
	if window.SeasonEnd != "" {
		seasonEnd, err = time.Parse(DateLayout, window.SeasonEnd)
		if err != nil {
			m.logger.Debug("skipping window with malformed season end",
				zap.String("season_end", window.SeasonEnd))
			return
		}
	}

	allowed := make(map[time.Weekday]bool, len(window.Weekdays))
	for _, name := range window.Weekdays {
		if wd, ok := weekdayIndex[strings.ToUpper(strings.TrimSpace(name))]; ok {
			allowed[wd] = true
		}
	}
	if len(allowed) == 0 {
		return
	}

	for _, entry := range window.Entries {
		slot, ok := SlotForTime(entry.StartTime)
		if !ok {
			m.logger.Debug("skipping entry with unparsable start time",
				zap.String("start_time", entry.StartTime))
			continue
		}
		blackout := make(map[string]bool, len(entry.BlackoutDates))
		for _, date := range entry.BlackoutDates {
			blackout[strings.TrimSpace(date)] = true
		}

		for d, day := range days {
			if day.Before(seasonStart) || day.After(seasonEnd) {
				continue
			}
			if !allowed[day.Weekday()] {
				continue
			}
			if blackout[day.Format(DateLayout)] {
				continue
			}
			ga.Available[d][slot] = true
			// Several entries may land in the same hour slot; the earliest
			// clock time wins.
			if current := ga.StartTimes[d][slot]; current == "" || entry.StartTime < current {
				ga.StartTimes[d][slot] = entry.StartTime
			}
		}
	}
}

// SmoothedScore converts a review summary into the optimization weight. The
// log term rewards review volume, so a handful of 5-star reviews cannot
// dominate hundreds of 4.5-star ones.
func SmoothedScore(r Rating) int {
	if r.Average <= 0 {
		return 0
	}
	weight := 1 + math.Log1p(float64(r.Count))/math.Log1p(100)
	return int(math.Round(r.Average * weight * 10))
}

func durationSlots(minutes int) int {
	slots := int(math.Ceil(float64(minutes) / 60.0))
	if slots < 1 {
		return 1
	}
	return slots
}

func horizonDays(minDate, maxDate time.Time) []time.Time {
	start := minDate.Truncate(24 * time.Hour)
	var days []time.Time
	for day := start; !day.After(maxDate); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
