// Package planner turns a user question into a schema-valid Plan by way
// of a text-completion service. Free-text generation is not guaranteed to
// satisfy a strict schema on the first attempt, so the escalation order is
// a data table of retry stages rather than nested control flow: each stage
// narrows the instruction, never the strategy.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/omcar04/clave-take-home/internal/observability"
	"github.com/omcar04/clave-take-home/internal/plan"
)

// stage is one step of the retry policy.
type stage struct {
	name   string
	suffix string
}

const (
	stageFirstAttempt   = 0
	stageJSONRetry      = 1
	stageForcedNonempty = 2
)

var stages = [...]stage{
	stageFirstAttempt: {name: "first_attempt"},
	stageJSONRetry: {
		name:   "json_retry",
		suffix: "\n\nYour previous reply was not valid JSON for the schema above. Return ONLY valid JSON. No prose, no code fences.",
	},
	stageForcedNonempty: {
		name:   "forced_nonempty",
		suffix: "\n\nYou must return at least one action in \"actions\", or set \"clarify_question\". Return ONLY valid JSON.",
	},
}

var errEmptyPlan = errors.New("plan has no actions and no clarify_question")

type Planner struct {
	completer Completer
}

func New(c Completer) *Planner {
	return &Planner{completer: c}
}

// Plan runs the retry state machine until a usable plan is obtained or the
// escalation ladder is exhausted. Completion calls are strictly
// sequential, never raced. A terminal failure is surfaced as an error,
// never a guessed plan.
func (p *Planner) Plan(ctx context.Context, prompt string) (*plan.Plan, error) {
	var lastErr error

	st := stageFirstAttempt
	for {
		observability.PlannerAttempt(stages[st].name)

		raw, err := p.completer.Complete(ctx, prompt+stages[st].suffix)
		if err != nil {
			return nil, fmt.Errorf("planner: %w", err)
		}

		pl, err := parsePlan(raw)
		if err != nil {
			lastErr = err
			log.Warn().Str("stage", stages[st].name).Err(err).Msg("plan rejected")
			if st == stageFirstAttempt {
				st = stageJSONRetry
				continue
			}
			break
		}

		if len(pl.Actions) == 0 && pl.ClarifyQuestion == "" {
			lastErr = errEmptyPlan
			log.Warn().Str("stage", stages[st].name).Msg("plan empty")
			if st != stageForcedNonempty {
				st = stageForcedNonempty
				continue
			}
			break
		}

		log.Debug().Str("stage", stages[st].name).Int("actions", len(pl.Actions)).Msg("plan accepted")
		return pl, nil
	}

	return nil, fmt.Errorf("planner: no valid plan after retries: %w", lastErr)
}

// parsePlan attempts a direct decode, then falls back to the first
// balanced JSON object in the reply (models like to wrap JSON in prose or
// code fences).
func parsePlan(raw string) (*plan.Plan, error) {
	pl, err := plan.Parse([]byte(raw))
	if err == nil {
		return pl, nil
	}
	if inner := extractJSON(raw); inner != "" && inner != raw {
		if pl, innerErr := plan.Parse([]byte(inner)); innerErr == nil {
			return pl, nil
		}
	}
	return nil, err
}
