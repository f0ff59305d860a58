package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func TestAllocatePacksByPriority(t *testing.T) {
	tasks := []TaskSpec{
		{ID: "low", Title: "emails", DurationMinutes: 30, Priority: 3},
		{ID: "high", Title: "design review", DurationMinutes: 60, Priority: 9},
	}

	result := Allocate(tasks, DefaultConstraints(), day)

	require.Len(t, result.Blocks, 2)
	assert.Equal(t, "high", result.Blocks[0].TaskID)
	assert.Equal(t, "09:00", result.Blocks[0].StartTime.Format("15:04"))
	assert.Equal(t, "10:00", result.Blocks[0].EndTime.Format("15:04"))
	// 15 minute gap before the next block
	assert.Equal(t, "10:15", result.Blocks[1].StartTime.Format("15:04"))
	assert.Equal(t, 90, result.TotalMinutes)
	assert.Equal(t, float64(100), result.EfficiencyScore)
}

func TestAllocateSkipsLunchBreak(t *testing.T) {
	tasks := []TaskSpec{
		{ID: "a", DurationMinutes: 150, Priority: 9}, // 09:00 - 11:30
		{ID: "b", DurationMinutes: 60, Priority: 8},  // 11:45 would cross lunch
	}

	result := Allocate(tasks, DefaultConstraints(), day)

	require.Len(t, result.Blocks, 2)
	assert.Equal(t, "13:00", result.Blocks[1].StartTime.Format("15:04"))
}

func TestAllocateOverflowCostsEfficiency(t *testing.T) {
	tasks := []TaskSpec{
		{ID: "marathon", DurationMinutes: 600, Priority: 9},
	}

	result := Allocate(tasks, DefaultConstraints(), day)

	require.Len(t, result.Blocks, 1)
	assert.Equal(t, float64(90), result.EfficiencyScore)
}

func TestAllocateZeroDurationDefaultsToAnHour(t *testing.T) {
	result := Allocate([]TaskSpec{{ID: "t", Priority: 5}}, DefaultConstraints(), day)

	require.Len(t, result.Blocks, 1)
	assert.Equal(t, 60, result.Blocks[0].DurationMinutes)
}

func TestAllocateEmptyInput(t *testing.T) {
	result := Allocate(nil, DefaultConstraints(), day)

	assert.Empty(t, result.Blocks)
	assert.Equal(t, float64(100), result.EfficiencyScore)
}
