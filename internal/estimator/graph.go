package estimator

import (
	"fmt"

	"covid-estimator/internal/model"
)

// Graph is the dependency graph between stages. Every field is produced by
// exactly one stage, and a field is evaluated only after every field its
// stage requires.
type Graph struct {
	stages map[model.Field]Stage
	order  []model.Field
}

// NewGraph validates stages and fixes their evaluation order. Stages are
// ordered topologically; ties keep the order they were given in.
func NewGraph(stages ...Stage) (*Graph, error) {
	g := &Graph{stages: make(map[model.Field]Stage, len(stages))}
	for _, s := range stages {
		if _, dup := g.stages[s.Field]; dup {
			return nil, fmt.Errorf("stage %s: field %s produced twice", s.Name, s.Field)
		}
		g.stages[s.Field] = s
	}
	for _, s := range stages {
		for _, r := range s.Requires {
			if _, ok := g.stages[r]; !ok {
				return nil, fmt.Errorf("stage %s: requires unknown field %s", s.Name, r)
			}
		}
	}

	placed := make(map[model.Field]bool, len(stages))
	for len(g.order) < len(stages) {
		progressed := false
		for _, s := range stages {
			if placed[s.Field] || !requiresPlaced(s, placed) {
				continue
			}
			placed[s.Field] = true
			g.order = append(g.order, s.Field)
			progressed = true
			break
		}
		if !progressed {
			return nil, fmt.Errorf("%w among %d unplaced stages", ErrCycle, len(stages)-len(g.order))
		}
	}
	return g, nil
}

func requiresPlaced(s Stage, placed map[model.Field]bool) bool {
	for _, r := range s.Requires {
		if !placed[r] {
			return false
		}
	}
	return true
}

// Order returns every field in evaluation order.
func (g *Graph) Order() []model.Field {
	out := make([]model.Field, len(g.order))
	copy(out, g.order)
	return out
}

// Stage returns the stage producing f.
func (g *Graph) Stage(f model.Field) (Stage, bool) {
	s, ok := g.stages[f]
	return s, ok
}

// Plan returns target and everything it transitively requires, in
// evaluation order. It returns nil for a field no stage produces.
func (g *Graph) Plan(target model.Field) []model.Field {
	if _, ok := g.stages[target]; !ok {
		return nil
	}

	needed := map[model.Field]bool{target: true}
	stack := []model.Field{target}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, r := range g.stages[f].Requires {
			if !needed[r] {
				needed[r] = true
				stack = append(stack, r)
			}
		}
	}

	plan := make([]model.Field, 0, len(needed))
	for _, f := range g.order {
		if needed[f] {
			plan = append(plan, f)
		}
	}
	return plan
}

// Resolve derives target in b, computing any absent prerequisite first.
// Fields already present are left alone. Fields that cannot be derived are
// reported as skips; their dependents are skipped with
// ErrMissingPrecondition.
func (g *Graph) Resolve(env Env, b model.Impact, target model.Field) (model.Impact, []Skip) {
	plan := g.Plan(target)
	if plan == nil {
		return b, []Skip{{
			Scenario: env.Scenario.Name,
			Field:    target,
			Err:      fmt.Errorf("%w: %s", ErrUnknownStage, target),
		}}
	}

	var skips []Skip
	for _, f := range plan {
		if b.Has(f) {
			continue
		}
		next, err := g.stages[f].Apply(env, b)
		if err != nil {
			skips = append(skips, Skip{Scenario: env.Scenario.Name, Field: f, Err: err})
			continue
		}
		b = next
	}
	return b, skips
}
