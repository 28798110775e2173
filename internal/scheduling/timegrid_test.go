package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	date, err := time.Parse(DateLayout, raw)
	require.NoError(t, err)
	return date
}

func allWeekdays() []string {
	return []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}
}

func TestSlotTableAnchoredAtSix(t *testing.T) {
	assert.Equal(t, "06:00", SlotTime(0))
	assert.Equal(t, "23:00", SlotTime(17))
	assert.Equal(t, "00:00", SlotTime(18))
	assert.Equal(t, "05:00", SlotTime(23))
	assert.Equal(t, "", SlotTime(24))

	slot, ok := SlotForTime("14:00")
	require.True(t, ok)
	assert.Equal(t, 8, slot)

	slot, ok = SlotForTime("00:30")
	require.True(t, ok)
	assert.Equal(t, 18, slot)

	_, ok = SlotForTime("25:00")
	assert.False(t, ok)
	_, ok = SlotForTime("10:99")
	assert.False(t, ok)
	_, ok = SlotForTime("10:-5")
	assert.False(t, ok)
	_, ok = SlotForTime("noon")
	assert.False(t, ok)
}

func TestMapperEmptyInputsYieldEmptyGrid(t *testing.T) {
	mapper := NewMapper(nil)

	assert.True(t, mapper.Build(nil, mustDate(t, "2025-07-01"), mustDate(t, "2025-07-03")).Empty())
	assert.True(t, mapper.Build([]Activity{{}}, time.Time{}, mustDate(t, "2025-07-03")).Empty())
	assert.True(t, mapper.Build([]Activity{{}}, mustDate(t, "2025-07-03"), time.Time{}).Empty())
	assert.True(t, mapper.Build([]Activity{{}}, mustDate(t, "2025-07-03"), mustDate(t, "2025-07-01")).Empty())
}

func TestMapperRoundTripFullHorizon(t *testing.T) {
	mapper := NewMapper(nil)
	activity := Activity{
		Details: ActivityDetails{DurationMinutes: 90},
		Rating:  Rating{Average: 4.5, Count: 40},
		Windows: []Window{{
			SeasonStart: "2025-01-01",
			Weekdays:    allWeekdays(),
			Entries:     []TimeEntry{{StartTime: "10:00"}},
		}},
	}

	grid := mapper.Build([]Activity{activity}, mustDate(t, "2025-07-01"), mustDate(t, "2025-07-05"))
	require.Len(t, grid.Days, 5)
	require.Len(t, grid.Activities, 1)

	slot, _ := SlotForTime("10:00")
	for d := range grid.Days {
		assert.True(t, grid.Activities[0].Available[d][slot], "day %d should be available", d)
		assert.Equal(t, "10:00", grid.Activities[0].StartTimes[d][slot])
	}
	assert.Equal(t, 2, grid.Activities[0].DurationSlots)
}

func TestMapperHonoursWeekdaysSeasonAndBlackouts(t *testing.T) {
	mapper := NewMapper(nil)
	// 2025-07-07 is a Monday.
	activity := Activity{
		Windows: []Window{{
			SeasonStart: "2025-07-08",
			SeasonEnd:   "2025-07-10",
			Weekdays:    []string{"tuesday", "WEDNESDAY", "Thursday", "NOT_A_DAY"},
			Entries: []TimeEntry{{
				StartTime:     "09:00",
				BlackoutDates: []string{"2025-07-09"},
			}},
		}},
	}

	grid := mapper.Build([]Activity{activity}, mustDate(t, "2025-07-07"), mustDate(t, "2025-07-11"))
	require.Len(t, grid.Days, 5)

	slot, _ := SlotForTime("09:00")
	assert.False(t, grid.Activities[0].Available[0][slot], "monday precedes the season")
	assert.True(t, grid.Activities[0].Available[1][slot], "tuesday inside season")
	assert.False(t, grid.Activities[0].Available[2][slot], "wednesday is blacked out")
	assert.True(t, grid.Activities[0].Available[3][slot], "thursday inside season")
	assert.False(t, grid.Activities[0].Available[4][slot], "friday is past the season end")
}

func TestMapperOpenEndedSeasonAndMalformedWindows(t *testing.T) {
	mapper := NewMapper(nil)
	activity := Activity{
		Windows: []Window{
			{SeasonStart: "not-a-date", Weekdays: allWeekdays(), Entries: []TimeEntry{{StartTime: "10:00"}}},
			{SeasonStart: "2025-01-01", Weekdays: allWeekdays(), Entries: []TimeEntry{{StartTime: "bogus"}}},
			{SeasonStart: "2025-01-01", Weekdays: allWeekdays(), Entries: []TimeEntry{{StartTime: "10:99"}}},
			{SeasonStart: "2025-01-01", Weekdays: allWeekdays(), Entries: []TimeEntry{{StartTime: "11:00"}}},
		},
	}

	grid := mapper.Build([]Activity{activity}, mustDate(t, "2030-03-04"), mustDate(t, "2030-03-04"))
	require.Len(t, grid.Days, 1)

	tenAM, _ := SlotForTime("10:00")
	elevenAM, _ := SlotForTime("11:00")
	assert.False(t, grid.Activities[0].Available[0][tenAM], "malformed windows are skipped")
	assert.True(t, grid.Activities[0].Available[0][elevenAM], "open-ended season reaches far future")
}

func TestMapperDropsOutOfRangeMinuteEntries(t *testing.T) {
	mapper := NewMapper(nil)
	activity := Activity{
		Details: ActivityDetails{DurationMinutes: 60},
		Windows: []Window{{
			SeasonStart: "2025-01-01",
			Weekdays:    allWeekdays(),
			Entries: []TimeEntry{
				{StartTime: "10:99"},
				{StartTime: "10:30"},
			},
		}},
	}

	grid := mapper.Build([]Activity{activity}, mustDate(t, "2025-07-01"), mustDate(t, "2025-07-01"))
	require.Len(t, grid.Days, 1)

	slot, _ := SlotForTime("10:30")
	require.True(t, grid.Activities[0].Available[0][slot])
	assert.Equal(t, "10:30", grid.Activities[0].StartTimes[0][slot], "the unparsable sibling must not win the slot")

	// Every mapped cell must assemble into a concrete timestamp.
	schedule := Schedule{Days: 1, Placements: []*Placement{{Day: 0, Slot: slot}}}
	plans, err := AssembleDayPlans([]Activity{activity}, grid, schedule)
	require.NoError(t, err)
	require.Len(t, plans[0].Activities, 1)
	assert.Equal(t, time.Date(2025, time.July, 1, 10, 30, 0, 0, time.UTC), plans[0].Activities[0].Start)
}

func TestMapperKeepsEarliestStartTimePerSlot(t *testing.T) {
	mapper := NewMapper(nil)
	activity := Activity{
		Windows: []Window{{
			SeasonStart: "2025-01-01",
			Weekdays:    allWeekdays(),
			Entries: []TimeEntry{
				{StartTime: "14:45"},
				{StartTime: "14:15"},
				{StartTime: "14:30"},
			},
		}},
	}

	grid := mapper.Build([]Activity{activity}, mustDate(t, "2025-07-01"), mustDate(t, "2025-07-01"))
	slot, _ := SlotForTime("14:15")
	assert.Equal(t, "14:15", grid.Activities[0].StartTimes[0][slot])
}

func TestSmoothedScoreRewardsVolume(t *testing.T) {
	few := SmoothedScore(Rating{Average: 5.0, Count: 3})
	many := SmoothedScore(Rating{Average: 4.5, Count: 400})

	assert.Greater(t, many, few, "review volume should outweigh a slightly higher average")
	assert.Equal(t, 0, SmoothedScore(Rating{}))

	// round(4.0 * (1 + log1p(100)/log1p(100)) * 10) = 80
	assert.Equal(t, 80, SmoothedScore(Rating{Average: 4.0, Count: 100}))
}

func TestDurationSlotsRoundsUpToAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, durationSlots(0))
	assert.Equal(t, 1, durationSlots(45))
	assert.Equal(t, 1, durationSlots(60))
	assert.Equal(t, 2, durationSlots(61))
	assert.Equal(t, 3, durationSlots(150))
}
