package schedule

import (
	"sort"
	"time"
)

// TaskSpec is one unit of work to place on the calendar.
type TaskSpec struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration"`
	Priority        int       `json:"priority"`
	Deadline        time.Time `json:"deadline"`
}

// Constraints bound where blocks may be placed.
type Constraints struct {
	WorkStart  time.Duration // offset from midnight, e.g. 9h
	WorkEnd    time.Duration // e.g. 18h
	Breaks     []BreakWindow
	GapMinutes int // rest between consecutive blocks
}

// BreakWindow is a daily no-scheduling window.
type BreakWindow struct {
	Start time.Duration
	End   time.Duration
}

// DefaultConstraints mirrors a standard office day: 09:00-18:00, lunch and an
// afternoon break, 15 minutes between blocks.
func DefaultConstraints() Constraints {
	return Constraints{
		WorkStart: 9 * time.Hour,
		WorkEnd:   18 * time.Hour,
		Breaks: []BreakWindow{
			{Start: 12 * time.Hour, End: 13 * time.Hour},
			{Start: 15 * time.Hour, End: 15*time.Hour + 15*time.Minute},
		},
		GapMinutes: 15,
	}
}

// Block is one placed time block.
type Block struct {
	TaskID          string    `json:"task_id"`
	Title           string    `json:"title"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration"`
	Priority        int       `json:"priority"`
}

// AllocationResult is the outcome of packing tasks into a day.
type AllocationResult struct {
	Blocks          []Block `json:"schedule_blocks"`
	TotalMinutes    int     `json:"total_duration"`
	EfficiencyScore float64 `json:"efficiency_score"`
}

// Allocate packs tasks into the day containing `day`, highest priority first,
// starting at the work-start offset, skipping break windows and leaving the
// configured gap between blocks. Tasks that spill past the working window are
// still placed (the day overflows rather than dropping work) but cost
// efficiency score.
func Allocate(tasks []TaskSpec, c Constraints, day time.Time) AllocationResult {
	sorted := make([]TaskSpec, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	cursor := midnight.Add(c.WorkStart)
	workEnd := midnight.Add(c.WorkEnd)

	var result AllocationResult
	overflowed := 0
	for _, t := range sorted {
		dur := time.Duration(t.DurationMinutes) * time.Minute
		if t.DurationMinutes <= 0 {
			dur = time.Hour
		}
		cursor = skipBreaks(cursor, dur, c, midnight)
		end := cursor.Add(dur)
		if end.After(workEnd) {
			overflowed++
		}
		result.Blocks = append(result.Blocks, Block{
			TaskID:          t.ID,
			Title:           t.Title,
			StartTime:       cursor,
			EndTime:         end,
			DurationMinutes: int(dur.Minutes()),
			Priority:        t.Priority,
		})
		result.TotalMinutes += int(dur.Minutes())
		cursor = end.Add(time.Duration(c.GapMinutes) * time.Minute)
	}

	result.EfficiencyScore = 100 - 10*float64(overflowed)
	if result.EfficiencyScore < 0 {
		result.EfficiencyScore = 0
	}
	return result
}

func skipBreaks(cursor time.Time, dur time.Duration, c Constraints, midnight time.Time) time.Time {
	for _, b := range c.Breaks {
		bStart := midnight.Add(b.Start)
		bEnd := midnight.Add(b.End)
		if cursor.Before(bEnd) && cursor.Add(dur).After(bStart) {
			cursor = bEnd
		}
	}
	return cursor
}
