package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"covid-estimator/internal/estimator"
	"covid-estimator/internal/jsonpatch"
	"covid-estimator/internal/logging"
	"covid-estimator/internal/model"
)

// RatioSource supplies per-region ratio overrides.
type RatioSource interface {
	Lookup(ctx context.Context, regions []string) map[string]model.RatioPercentages
}

// Engine runs calculation requests. Each estimate in a request gets its own
// Estimator; the Engine itself only holds the default ratios, which may be
// swapped at any time with SetDefaults.
type Engine struct {
	defaults atomic.Pointer[estimator.Ratios]
	source   RatioSource
}

// New returns an Engine using defaults for any ratio neither the request
// nor source sets. source may be nil.
func New(defaults estimator.Ratios, source RatioSource) *Engine {
	e := &Engine{source: source}
	e.SetDefaults(defaults)
	return e
}

func (e *Engine) SetDefaults(r estimator.Ratios) {
	e.defaults.Store(&r)
}

func (e *Engine) Defaults() estimator.Ratios {
	return *e.defaults.Load()
}

// Process runs the requested stages (all of them by default) over every
// estimate in req. Ratios come from the request when given, else from the
// ratio source for the estimate's region, on top of the defaults.
func (e *Engine) Process(ctx context.Context, req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()
	logger := logging.FromContext(ctx)

	var allMessages []model.CalculationMessage
	outcome := model.OutcomeSuccess

	stages, unknown := resolveStages(req.Stages)
	for _, name := range unknown {
		allMessages = append(allMessages, model.CalculationMessage{
			ID:      len(allMessages),
			Level:   model.LevelCritical,
			Code:    model.CodeUnknownStage,
			Message: fmt.Sprintf("Unknown stage: %s", name),
		})
	}

	results := []model.EstimateResult{}
	if len(unknown) > 0 {
		outcome = model.OutcomeFailure
	} else {
		overrides := e.regionOverrides(ctx, req)
		defaults := e.Defaults()

		for i, in := range req.Estimates {
			ratios := defaults
			if req.Ratios != nil {
				ratios = ratios.Apply(*req.Ratios)
			} else {
				ratios = ratios.Apply(overrides[in.RegionName()])
			}

			est := estimator.New(in, estimator.WithRatios(ratios), estimator.WithLogger(logger))
			result := model.EstimateResult{
				Index:  i,
				Ratios: ratios.Percentages(),
				Stages: make([]model.ProcessedStage, 0, len(stages)),
			}

			for _, st := range stages {
				impact, severe := est.Impact(), est.SevereImpact()
				seen := len(est.Skips())

				est.Calculate(st.Field)

				processed := model.ProcessedStage{
					Stage:        st.Name,
					Impact:       jsonpatch.DiffImpact(impact, est.Impact(), "/impact"),
					SevereImpact: jsonpatch.DiffImpact(severe, est.SevereImpact(), "/severeImpact"),
				}
				for _, skip := range est.Skips()[seen:] {
					msg := model.CalculationMessage{
						ID:      len(allMessages),
						Level:   model.LevelWarning,
						Code:    skip.Code(),
						Message: fmt.Sprintf("estimate %d: %s", i, skip),
					}
					allMessages = append(allMessages, msg)
					processed.CalculationMessageIndexes = append(processed.CalculationMessageIndexes, msg.ID)
					result.CalculationMessageIndexes = append(result.CalculationMessageIndexes, msg.ID)
				}
				result.Stages = append(result.Stages, processed)
			}

			result.Output = est.Output()
			results = append(results, result)
		}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}

	logger.Info("engine: calculation processed",
		"tenant", req.TenantID, "estimates", len(req.Estimates),
		"messages", len(allMessages), "outcome", outcome, "duration", elapsed)

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               req.TenantID,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages:  allMessages,
			Estimates: results,
		},
	}
}

func (e *Engine) regionOverrides(ctx context.Context, req *model.CalculationRequest) map[string]model.RatioPercentages {
	if req.Ratios != nil || e.source == nil {
		return nil
	}
	regions := make([]string, 0, len(req.Estimates))
	for _, in := range req.Estimates {
		if name := in.RegionName(); name != "" {
			regions = append(regions, name)
		}
	}
	if len(regions) == 0 {
		return nil
	}
	return e.source.Lookup(ctx, regions)
}

// resolveStages maps stage names to stages, defaulting to the full
// pipeline. Unknown names are returned separately.
func resolveStages(names []string) ([]estimator.Stage, []string) {
	if len(names) == 0 {
		return estimator.Stages(), nil
	}
	var stages []estimator.Stage
	var unknown []string
	for _, name := range names {
		st, ok := estimator.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		stages = append(stages, st)
	}
	return stages, unknown
}
