package worklife

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-plandy/internal/llm"
	"go-plandy/internal/schedule"
	"go-plandy/pkg/prompts"
)

// Lister is the slice of the schedule store the balance handler reads from.
type Lister interface {
	List(ctx context.Context, userID int64, date *time.Time) ([]schedule.Schedule, error)
}

var workKeywords = []string{
	"회의", "미팅", "프로젝트", "업무", "작업", "기획", "발표", "보고서",
	"meeting", "project", "work", "task", "planning", "presentation", "report",
}

var personalKeywords = []string{
	"운동", "독서", "휴식", "취미", "가족", "친구", "여행", "영화",
	"exercise", "reading", "rest", "hobby", "family", "friend", "travel", "movie",
}

// Analysis is the computed balance picture for one user's day.
type Analysis struct {
	BalanceScore     float64
	WorkHours        float64
	PersonalHours    float64
	Ratio            float64
	StressIndicators []string
	Improvements     []string
}

type Handler struct {
	factory *llm.Factory
	chain   chains.Chain
	store   Lister
	nowFn   func() time.Time
}

func NewHandler(f *llm.Factory, store Lister) *Handler {
	return &Handler{
		factory: f,
		chain: f.Chain(prompts.WorkLifeRecommendation, []string{
			"BalanceScore", "WorkHours", "LeisureHours", "StressIndicators", "Suggestions",
		}),
		store: store,
		nowFn: time.Now,
	}
}

func (h *Handler) WithNowFunc(fn func() time.Time) *Handler {
	return &Handler{factory: h.factory, chain: h.chain, store: h.store, nowFn: fn}
}

// Analyze scores today's work/life balance from the stored schedule.
// stressLevel comes from the health slot when a health analysis ran earlier
// in the same pipeline; pass a negative value when none is available.
func (h *Handler) Analyze(ctx context.Context, userID int64, stressLevel float64) Analysis {
	today := h.nowFn()
	schedules, err := h.store.List(ctx, userID, &today)
	if err != nil {
		log.Warn().Err(err).Msg("schedule lookup failed, scoring without data")
		schedules = nil
	}

	if len(schedules) == 0 {
		return Analysis{
			BalanceScore:     50,
			StressIndicators: []string{"insufficient schedule data"},
			Improvements:     []string{"Register your schedules so balance can be measured"},
		}
	}

	var workMinutes, personalMinutes int
	for _, sc := range schedules {
		if classify(sc.Title + " " + sc.Description) == "work" {
			workMinutes += sc.DurationMinutes
		} else {
			personalMinutes += sc.DurationMinutes
		}
	}

	a := Analysis{
		WorkHours:     float64(workMinutes) / 60,
		PersonalHours: float64(personalMinutes) / 60,
	}
	personal := a.PersonalHours
	if personal < 0.1 {
		personal = 0.1
	}
	a.Ratio = a.WorkHours / personal

	switch {
	case a.Ratio <= 1.2:
		a.BalanceScore = 85
	case a.Ratio <= 1.5:
		a.BalanceScore = 70
	default:
		a.BalanceScore = 50
	}

	if a.Ratio > 1.5 {
		a.StressIndicators = append(a.StressIndicators, "work hours far exceed personal time")
		a.Improvements = append(a.Improvements, "Block out protected personal time this week")
	}
	if a.WorkHours > 9 {
		a.StressIndicators = append(a.StressIndicators, "long working hours")
		a.Improvements = append(a.Improvements, "Cap daily work blocks and add breaks")
	}
	if stressLevel > 7 {
		a.BalanceScore -= 10
		a.StressIndicators = append(a.StressIndicators, "elevated stress level")
		a.Improvements = append(a.Improvements, "Add a recovery activity after work")
	}
	if a.BalanceScore < 0 {
		a.BalanceScore = 0
	}
	if len(a.Improvements) == 0 {
		a.Improvements = append(a.Improvements, "Balance looks healthy, keep the current rhythm")
	}
	return a
}

// classify tags a schedule entry as work or personal by keyword. Untagged
// entries count as personal unless the text carries a work noun.
func classify(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range workKeywords {
		if strings.Contains(lower, kw) {
			return "work"
		}
	}
	for _, kw := range personalKeywords {
		if strings.Contains(lower, kw) {
			return "personal"
		}
	}
	return "personal"
}

// Recommend narrates the balance analysis, degrading to a deterministic
// summary with the error appended when the model is unreachable.
func (h *Handler) Recommend(ctx context.Context, a Analysis) string {
	text, err := h.factory.Call(ctx, h.chain, map[string]any{
		"BalanceScore":     a.BalanceScore,
		"WorkHours":        a.WorkHours,
		"LeisureHours":     a.PersonalHours,
		"StressIndicators": strings.Join(a.StressIndicators, ", "),
		"Suggestions":      strings.Join(a.Improvements, ", "),
	})
	if err == nil {
		return text
	}

	var rec string
	switch {
	case a.BalanceScore >= 80:
		rec = "Your work-life balance is in good shape. Keep the current rhythm."
	case a.BalanceScore >= 60:
		rec = "Your balance is workable but leaning toward work. Protect some personal time."
	default:
		rec = "Your balance needs attention. Reduce work hours and schedule recovery time."
	}
	if len(a.Improvements) > 0 {
		rec += " Suggestion: " + a.Improvements[0]
	}
	return fmt.Sprintf("%s (API error: %v)", rec, err)
}
