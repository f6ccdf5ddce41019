package plan

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/fistfuel/internal/http/httperr"
	"github.com/janisto/fistfuel/internal/service/guide"
	"github.com/janisto/fistfuel/internal/service/portion"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
)

// Calculator computes plans.
type Calculator interface {
	Calculate(ctx context.Context, goal profilesvc.Goal, height, weight float64) portion.Result
	CalculateProfile(ctx context.Context, p profilesvc.Profile) portion.Result
}

// PlanCalculateInput for POST /v1/plan
type PlanCalculateInput struct {
	Body struct {
		Goal   string  `json:"goal"   doc:"Goal code or display label" example:"balanced"`
		Height float64 `json:"height" doc:"Height in centimeters"      example:"170"`
		Weight float64 `json:"weight" doc:"Weight in kilograms"        example:"65"`
	}
}

// PlanOutput for plan endpoints.
type PlanOutput struct {
	Body Plan
}

// Register registers plan endpoints.
func Register(api huma.API, calc Calculator, profiles profilesvc.Service, catalogue *guide.Catalogue) {
	huma.Register(api, huma.Operation{
		OperationID: "calculate-plan",
		Method:      http.MethodPost,
		Path:        "/v1/plan",
		Summary:     "Calculate a plan",
		Description: "Computes the plan for the given inputs without storing anything. " +
			"Inputs outside the accepted ranges yield the default plan with fallback set.",
		Tags: []string{"Plan"},
	}, func(ctx context.Context, input *PlanCalculateInput) (*PlanOutput, error) {
		goal, ok := profilesvc.ParseGoal(input.Body.Goal)
		if !ok {
			goal = profilesvc.Goal(input.Body.Goal)
		}
		r := calc.Calculate(ctx, goal, input.Body.Height, input.Body.Weight)
		return &PlanOutput{Body: FromResult(r, catalogue)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-plan",
		Method:      http.MethodGet,
		Path:        "/v1/plan",
		Summary:     "Get the plan for the stored profile",
		Tags:        []string{"Plan"},
	}, func(ctx context.Context, _ *struct{}) (*PlanOutput, error) {
		p, err := profiles.Load(ctx)
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &PlanOutput{Body: FromResult(calc.CalculateProfile(ctx, *p), catalogue)}, nil
	})
}
