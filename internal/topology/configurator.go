// Package topology decides whether the known two-output layout applies and
// issues it through the display server boundary.
//
// Runs are not serialised: two configurators applying against the same
// display session race and the last apply wins.
package topology

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frudas24/dualhead/internal/layout"
	"github.com/frudas24/dualhead/internal/monitor"
	"github.com/rs/zerolog"
)

// Querier lists the outputs the display server currently knows about.
type Querier interface {
	Outputs(ctx context.Context) ([]monitor.Output, error)
}

// Applier replaces the display layout with a plan in a single request.
type Applier interface {
	Apply(ctx context.Context, plan layout.Plan) error
}

// Action is the outcome of a reconcile pass.
type Action string

const (
	// ActionNone means the trigger output was not available.
	ActionNone Action = "none"
	// ActionApplied means the plan was sent to the display server.
	ActionApplied Action = "applied"
	// ActionPlanned means the plan was built but not sent (dry run).
	ActionPlanned Action = "planned"
)

// Result describes what a reconcile pass decided.
type Result struct {
	Rule    string
	Trigger string
	Action  Action
	Plan    layout.Plan
}

// Configurator runs reconcile passes against a display server.
type Configurator struct {
	Querier Querier
	Applier Applier
	Rules   []layout.LayoutRule
	// Rule forces a rule by name instead of probing the naming convention.
	Rule   string
	DryRun bool
	Logger zerolog.Logger
}

// New returns a Configurator using the compiled-in rules.
func New(q Querier, a Applier, logger zerolog.Logger) *Configurator {
	return &Configurator{
		Querier: q,
		Applier: a,
		Rules:   layout.Rules(),
		Logger:  logger,
	}
}

// Reconcile queries the outputs once and applies the rule's layout when its
// trigger output is connected. A missing or disconnected trigger is a no-op.
// Nothing is cached between calls.
func (c *Configurator) Reconcile(ctx context.Context) (Result, error) {
	if c.Querier == nil || c.Applier == nil {
		return Result{}, errors.New("topology: querier and applier are required")
	}
	var forced *layout.LayoutRule
	if c.Rule != "" {
		r, ok := layout.Lookup(c.Rules, c.Rule)
		if !ok {
			return Result{}, fmt.Errorf("topology: unknown rule %q", c.Rule)
		}
		forced = &r
	}

	outputs, err := c.Querier.Outputs(ctx)
	if err != nil {
		return Result{}, &QueryError{Err: err}
	}
	c.Logger.Debug().Int("count", len(outputs)).Msg("query: outputs listed")

	var rule layout.LayoutRule
	if forced != nil {
		rule = *forced
	} else {
		r, ok := layout.Select(c.Rules, outputs)
		if !ok {
			return Result{}, errors.New("topology: no layout rules configured")
		}
		rule = r
	}

	res := Result{Rule: rule.Name, Trigger: rule.Trigger, Action: ActionNone}
	logger := c.Logger.With().Str("rule", rule.Name).Str("trigger", rule.Trigger).Logger()

	if !monitor.Available(outputs, rule.Trigger) {
		logger.Info().Msg("reconcile: trigger output not available, leaving layout unchanged")
		return res, nil
	}

	res.Plan = rule.Plan()
	if c.DryRun {
		res.Action = ActionPlanned
		logger.Info().Strs("outputs", res.Plan.Outputs()).Msg("reconcile: dry run, layout not applied")
		return res, nil
	}

	if err := c.Applier.Apply(ctx, res.Plan); err != nil {
		return res, newApplyError(res.Plan, rule, err)
	}
	res.Action = ActionApplied
	logger.Info().Strs("outputs", res.Plan.Outputs()).Msg("reconcile: layout applied")
	return res, nil
}

// newApplyError attributes a failure to the directive whose output appears as
// a whole word in the error text, falling back to the trigger output.
func newApplyError(plan layout.Plan, rule layout.LayoutRule, err error) *ApplyError {
	target, _ := plan.Directive(rule.Trigger)
	for _, word := range outputWords(err.Error()) {
		if d, ok := plan.Directive(word); ok {
			target = d
			break
		}
	}
	return &ApplyError{
		Output:   target.Output,
		Mode:     target.Resolution,
		Rotation: target.Rotation,
		Err:      err,
	}
}

// outputWords splits text on characters that cannot appear in a connector
// name, so "eDP1" never reads as "DP1".
func outputWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '_':
			return false
		default:
			return true
		}
	})
}
