package worklife

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-plandy/internal/llm"
	"go-plandy/internal/schedule"
)

type fakeLister struct {
	schedules []schedule.Schedule
	err       error
}

func (f *fakeLister) List(context.Context, int64, *time.Time) ([]schedule.Schedule, error) {
	return f.schedules, f.err
}

func entry(title string, minutes int) schedule.Schedule {
	return schedule.Schedule{Title: title, DurationMinutes: minutes}
}

func newTestHandler(lister *fakeLister) *Handler {
	return NewHandler(llm.New("", "", 0), lister)
}

func TestAnalyzeBalancedDay(t *testing.T) {
	h := newTestHandler(&fakeLister{schedules: []schedule.Schedule{
		entry("프로젝트 작업", 360), // 6h work
		entry("운동", 300),      // 5h personal
	}})

	a := h.Analyze(context.Background(), 1, -1)

	assert.InDelta(t, 1.2, a.Ratio, 0.01)
	assert.Equal(t, float64(85), a.BalanceScore)
	assert.Equal(t, 6.0, a.WorkHours)
	assert.Equal(t, 5.0, a.PersonalHours)
}

func TestAnalyzeLeaningToWork(t *testing.T) {
	h := newTestHandler(&fakeLister{schedules: []schedule.Schedule{
		entry("meeting with team", 360), // 6h work
		entry("독서", 240),               // 4h personal
	}})

	a := h.Analyze(context.Background(), 1, -1)

	assert.Equal(t, float64(70), a.BalanceScore)
}

func TestAnalyzeWorkHeavyDay(t *testing.T) {
	h := newTestHandler(&fakeLister{schedules: []schedule.Schedule{
		entry("회의", 240),
		entry("프로젝트 기획", 240), // 8h work total
		entry("휴식", 120),      // 2h personal
	}})

	a := h.Analyze(context.Background(), 1, -1)

	assert.Equal(t, float64(50), a.BalanceScore)
	assert.NotEmpty(t, a.StressIndicators)
	assert.NotEmpty(t, a.Improvements)
}

func TestAnalyzeStressPenalty(t *testing.T) {
	schedules := []schedule.Schedule{
		entry("회의", 360),
		entry("운동", 300),
	}

	calm := newTestHandler(&fakeLister{schedules: schedules}).Analyze(context.Background(), 1, 5)
	stressed := newTestHandler(&fakeLister{schedules: schedules}).Analyze(context.Background(), 1, 8)

	assert.Equal(t, calm.BalanceScore-10, stressed.BalanceScore)
	assert.Contains(t, stressed.StressIndicators, "elevated stress level")
}

func TestAnalyzeNoData(t *testing.T) {
	h := newTestHandler(&fakeLister{})

	a := h.Analyze(context.Background(), 1, -1)

	assert.Equal(t, float64(50), a.BalanceScore)
	assert.Contains(t, a.StressIndicators, "insufficient schedule data")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"주간 회의", "work"},
		{"project planning", "work"},
		{"운동", "personal"},
		{"family dinner", "personal"},
		{"기타 일정", "personal"}, // untagged defaults to personal
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.text), tt.text)
	}
}

func TestRecommendFallbackCarriesError(t *testing.T) {
	h := newTestHandler(&fakeLister{})
	a := Analysis{BalanceScore: 85}

	rec := h.Recommend(context.Background(), a)

	assert.Contains(t, rec, "good shape")
	assert.Contains(t, rec, "API error")
}
