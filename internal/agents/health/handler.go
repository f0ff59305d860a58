package health

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"

	"go-plandy/internal/llm"
	"go-plandy/pkg/prompts"
)

// Analysis is the health picture handed to the recommendation step and to
// later pipeline stages. The metrics are the simulated stand-ins for a real
// analytics engine; only their shape is contractual.
type Analysis struct {
	HealthScore       float64
	StressLevel       float64
	SleepQuality      float64
	ExerciseFrequency float64
	HabitPatterns     map[string]any
	Recommendations   []string
}

type Handler struct {
	factory *llm.Factory
	chain   chains.Chain
}

func NewHandler(f *llm.Factory) *Handler {
	return &Handler{
		factory: f,
		chain: f.Chain(prompts.HealthRecommendation, []string{
			"HealthScore", "StressLevel", "SleepQuality", "ExerciseFrequency",
		}),
	}
}

// Analyze produces the user's current health picture.
func (h *Handler) Analyze(_ int64, userRequest string) Analysis {
	analysis := Analysis{
		HealthScore:       75.5,
		StressLevel:       6.2,
		SleepQuality:      7.1,
		ExerciseFrequency: 6.8,
		HabitPatterns: map[string]any{
			"coffee_intake": 3,
			"exercise_days": 4,
			"sleep_hours":   7.2,
			"work_breaks":   5,
		},
		Recommendations: []string{
			"Keep a consistent sleep schedule",
			"Take short breaks between long work sessions",
		},
	}
	if containsAny(userRequest, "스트레스", "stress") {
		analysis.Recommendations = append(analysis.Recommendations, "Schedule a recovery block after high-stress days")
	}
	return analysis
}

// Recommend turns the analysis into a personal narrative. On any model
// failure it degrades to a deterministic summary with the error appended.
func (h *Handler) Recommend(ctx context.Context, a Analysis) string {
	text, err := h.factory.Call(ctx, h.chain, map[string]any{
		"HealthScore":       a.HealthScore,
		"StressLevel":       a.StressLevel,
		"SleepQuality":      a.SleepQuality,
		"ExerciseFrequency": a.ExerciseFrequency,
	})
	if err == nil {
		return text
	}
	return fallbackRecommendation(a, err)
}

func fallbackRecommendation(a Analysis, err error) string {
	var rec string
	switch {
	case a.HealthScore >= 80:
		rec = "Your health is in great shape. Keep the current routine."
	case a.HealthScore >= 60:
		rec = "Your health is decent, with room to improve sleep and recovery."
	default:
		rec = "Your health needs attention. Prioritize rest and lighter workloads."
	}
	if a.StressLevel > 7 {
		rec += " Stress is running high; build in recovery time."
	}
	return fmt.Sprintf("%s (API error: %v)", rec, err)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
