package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"go-plandy/internal/llm"
	"go-plandy/internal/schedule"
	"go-plandy/pkg/data"
	"go-plandy/pkg/prompts"
)

// Saver is the slice of the schedule store the plan handler writes through.
type Saver interface {
	Save(ctx context.Context, sc schedule.Schedule) (int64, error)
}

// Plan is the result of turning a user request into a stored schedule.
type Plan struct {
	ScheduleID      string
	Title           string
	Description     string
	Blocks          []schedule.Block
	Constraints     schedule.Constraints
	EfficiencyScore float64
	Conflicts       []string
	SavedID         int64
}

type Handler struct {
	factory *llm.Factory
	chain   chains.Chain
	store   Saver
	nowFn   func() time.Time
}

func NewHandler(f *llm.Factory, store Saver) *Handler {
	return &Handler{
		factory: f,
		chain:   f.Chain(prompts.PlanExtract, []string{"UserRequest"}),
		store:   store,
		nowFn:   time.Now,
	}
}

// WithNowFunc overrides the time source, for tests.
func (h *Handler) WithNowFunc(fn func() time.Time) *Handler {
	return &Handler{factory: h.factory, chain: h.chain, store: h.store, nowFn: fn}
}

// Create extracts a schedule from the request, allocates it into today, and
// persists it. Extraction failures degrade to a generic title; store failures
// surface as conflicts on the plan rather than aborting it.
func (h *Handler) Create(ctx context.Context, userID int64, userRequest string) Plan {
	title, description := h.extract(ctx, userRequest)

	now := h.nowFn()
	constraints := schedule.DefaultConstraints()
	deadline := time.Date(now.Year(), now.Month(), now.Day(), 17, 0, 0, 0, now.Location())
	allocation := schedule.Allocate([]schedule.TaskSpec{{
		ID:              "user_request_task",
		Title:           title,
		DurationMinutes: 60,
		Priority:        8,
		Deadline:        deadline,
	}}, constraints, now)

	p := Plan{
		ScheduleID:      fmt.Sprintf("schedule_%d_%s", userID, now.Format("20060102_150405")),
		Title:           title,
		Description:     description,
		Blocks:          allocation.Blocks,
		Constraints:     constraints,
		EfficiencyScore: allocation.EfficiencyScore,
	}

	if len(allocation.Blocks) > 0 {
		block := allocation.Blocks[0]
		id, err := h.store.Save(ctx, schedule.Schedule{
			UserID:          userID,
			Title:           title,
			Description:     description,
			StartTime:       block.StartTime,
			EndTime:         block.EndTime,
			DurationMinutes: block.DurationMinutes,
			Priority:        block.Priority,
		})
		if err != nil {
			log.Warn().Err(err).Msg("schedule save failed")
			p.Conflicts = append(p.Conflicts, fmt.Sprintf("save failed: %v", err))
		} else {
			p.SavedID = id
		}
	}
	return p
}

// extract asks the model for a title/description pair, falling back to a
// generic title with the raw request as description.
func (h *Handler) extract(ctx context.Context, userRequest string) (title, description string) {
	title, description = "schedule", userRequest

	answer, err := h.factory.Call(ctx, h.chain, map[string]any{"UserRequest": userRequest})
	if err != nil {
		return title, description
	}
	block, err := data.ExtractJSON(answer)
	if err != nil {
		return title, description
	}
	var parsed struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return title, description
	}
	if parsed.Title != "" {
		title = parsed.Title
	}
	if parsed.Description != "" {
		description = parsed.Description
	}
	return title, description
}
