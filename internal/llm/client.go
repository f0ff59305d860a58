package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	langChainPrompts "github.com/tmc/langchaingo/prompts"
)

// ErrUnavailable is returned when no model backend is configured. Callers
// treat it like any other completion failure and fall back deterministically.
var ErrUnavailable = errors.New("llm backend not configured")

// Factory builds per-agent chains over a single shared model client. A
// factory without a backend still hands out nil chains so the rest of the
// pipeline can run on its fallback paths.
type Factory struct {
	llm         *openai.LLM
	temperature float64
}

func New(model, token string, temperature float64) *Factory {
	f := &Factory{temperature: temperature}
	if token == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, running with deterministic fallbacks only")
		return f
	}
	client, err := openai.New(openai.WithModel(model), openai.WithToken(token))
	if err != nil {
		log.Warn().Err(err).Msg("llm client init failed, running with deterministic fallbacks only")
		return f
	}
	f.llm = client
	return f
}

// Available reports whether a model backend is wired in.
func (f *Factory) Available() bool {
	return f != nil && f.llm != nil
}

// Chain builds an LLM chain from a prompt template, or nil when no backend
// is available.
func (f *Factory) Chain(tmpl string, vars []string) chains.Chain {
	if !f.Available() {
		return nil
	}
	return chains.NewLLMChain(f.llm, langChainPrompts.NewPromptTemplate(tmpl, vars))
}

// Call runs a chain to completion and returns the full answer text.
func (f *Factory) Call(ctx context.Context, chain chains.Chain, inputs map[string]any) (string, error) {
	if chain == nil {
		return "", ErrUnavailable
	}
	completion, err := chains.Call(ctx, chain, inputs, chains.WithTemperature(f.temperature))
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}
	text, ok := completion["text"].(string)
	if !ok {
		return "", errors.New("completion missing text output")
	}
	return text, nil
}

// CallStreaming runs a chain in token-stream mode, invoking fn for each chunk
// as it arrives, and returns the accumulated answer. fn may be nil.
func (f *Factory) CallStreaming(ctx context.Context, chain chains.Chain, inputs map[string]any, fn func(chunk string)) (string, error) {
	if chain == nil {
		return "", ErrUnavailable
	}
	var sb strings.Builder
	_, err := chains.Call(ctx, chain, inputs,
		chains.WithTemperature(f.temperature),
		chains.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			sb.Write(chunk)
			if fn != nil {
				fn(string(chunk))
			}
			return nil
		}),
	)
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}
	return sb.String(), nil
}
