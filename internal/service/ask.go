// Package service orchestrates the full question-to-widgets pipeline:
// reference fetch, text resolution, planning, normalization, guardrails,
// execution and summary. Each stage is a separate package; this one only
// sequences them.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/omcar04/clave-take-home/internal/guardrail"
	"github.com/omcar04/clave-take-home/internal/models"
	"github.com/omcar04/clave-take-home/internal/normalize"
	"github.com/omcar04/clave-take-home/internal/plan"
	"github.com/omcar04/clave-take-home/internal/planner"
	"github.com/omcar04/clave-take-home/internal/scope"
	"github.com/omcar04/clave-take-home/internal/summary"
)

// ErrEmptyQuery is returned for blank questions before anything runs.
var ErrEmptyQuery = errors.New("query must not be empty")

// ReferenceProvider yields the shared per-request reference context.
type ReferenceProvider interface {
	Fetch(ctx context.Context) (scope.Context, error)
}

// PlanMaker produces a validated plan from a prompt.
type PlanMaker interface {
	Plan(ctx context.Context, prompt string) (*plan.Plan, error)
}

// ActionRunner executes one normalized action against the store.
type ActionRunner interface {
	Run(ctx context.Context, a plan.Action, ref scope.Context, hint plan.Metric) (models.Widget, error)
}

type Service struct {
	provider ReferenceProvider
	planner  PlanMaker
	executor ActionRunner
}

func New(provider ReferenceProvider, pl PlanMaker, ex ActionRunner) *Service {
	return &Service{provider: provider, planner: pl, executor: ex}
}

// Ask runs one question through the whole pipeline. Execution is
// all-or-nothing: the first failing action fails the request, partial
// widget sets are never returned.
func (s *Service) Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()

	ref, err := s.provider.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	hints := scope.Resolve(query, ref)

	prompt := planner.BuildPrompt(ref, hints, query, strings.TrimSpace(req.Clarification))
	pl, err := s.planner.Plan(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if pl.ClarifyQuestion != "" {
		log.Info().Str("query", query).Msg("clarification requested")
		return &models.AskResponse{
			AssistantMessage: pl.AssistantMessage,
			ClarifyQuestion:  pl.ClarifyQuestion,
			Widgets:          []models.Widget{},
		}, nil
	}

	actions := prepare(query, ref, hints, pl)

	widgets := make([]models.Widget, 0, len(actions))
	for _, a := range actions {
		w, err := s.executor.Run(ctx, a, ref, hints.Metric)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}

	msg := pl.AssistantMessage
	if lines := summary.Build(widgets); len(lines) > 0 {
		if msg != "" {
			msg += " "
		}
		msg += strings.Join(lines, " ")
	}

	log.Info().
		Str("query", query).
		Int("actions", len(actions)).
		Int("widgets", len(widgets)).
		Dur("elapsed", time.Since(start)).
		Msg("ask completed")

	return &models.AskResponse{
		AssistantMessage: msg,
		Widgets:          widgets,
	}, nil
}

// prepare applies the deterministic post-planning pipeline in fixed
// order: plan-level defaults, resolver hints, relative dates, query-id
// normalization, daily-total pairing, and the action cap.
func prepare(query string, ref scope.Context, hints scope.Hints, pl *plan.Plan) []plan.Action {
	actions := make([]plan.Action, len(pl.Actions))
	copy(actions, pl.Actions)

	for i := range actions {
		a := &actions[i]
		if a.Intent == "" {
			a.Intent = pl.Intent
		}
		if a.RecommendedWidget == "" {
			a.RecommendedWidget = pl.RecommendedWidget
		}
		fillHints(&a.Params, hints)
	}

	actions = guardrail.ResolveRelativeDates(query, ref.MaxDate, actions)
	for i := range actions {
		actions[i] = normalize.Normalize(query, actions[i])
	}
	actions = guardrail.PairDailyTotals(actions)
	return guardrail.Cap(actions)
}

// fillHints backfills parameters the model omitted from signals the
// resolver found in the raw text. Explicit model parameters always win.
func fillHints(p *plan.Params, hints scope.Hints) {
	if p.Location == "" && len(p.Locations) == 0 {
		switch len(hints.Locations) {
		case 0:
		case 1:
			p.Location = hints.Locations[0]
		default:
			p.Locations = hints.Locations
		}
	}
	if p.OrderDate == "" && p.StartDate == "" && p.EndDate == "" && hints.Date != "" {
		p.OrderDate = hints.Date
	}
}
