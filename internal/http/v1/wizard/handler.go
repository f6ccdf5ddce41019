package wizard

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/fistfuel/internal/app"
	"github.com/janisto/fistfuel/internal/http/httperr"
	"github.com/janisto/fistfuel/internal/service/guide"
)

// StateOutput for every wizard endpoint.
type StateOutput struct {
	Body State
}

// SetupInput for POST /v1/app/setup
type SetupInput struct {
	Body struct {
		Goal   string  `json:"goal"   doc:"Goal code or display label" example:"balanced"`
		Height float64 `json:"height" doc:"Height in centimeters"      example:"170"`
		Weight float64 `json:"weight" doc:"Weight in kilograms"        example:"65"`
	}
}

// NavigateInput for POST /v1/app/navigate
type NavigateInput struct {
	Body struct {
		Page string `json:"page" doc:"Target page" example:"guide"`
	}
}

// Register registers the page-flow endpoints.
func Register(api huma.API, ctrl *app.Controller, catalogue *guide.Catalogue) {
	respond := func(ctx context.Context, s app.State, err error) (*StateOutput, error) {
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &StateOutput{Body: toHTTPState(s, catalogue)}, nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-app-state",
		Method:      http.MethodGet,
		Path:        "/v1/app",
		Summary:     "Get the current page state",
		Tags:        []string{"App"},
	}, func(ctx context.Context, _ *struct{}) (*StateOutput, error) {
		return respond(ctx, ctrl.View(), nil)
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-setup",
		Method:      http.MethodPost,
		Path:        "/v1/app/setup",
		Summary:     "Submit the setup form",
		Description: "Validates and saves the profile, then opens the dashboard.",
		Tags:        []string{"App"},
	}, func(ctx context.Context, input *SetupInput) (*StateOutput, error) {
		s, err := ctrl.Submit(ctx, app.SetupInput{
			Goal:   input.Body.Goal,
			Height: input.Body.Height,
			Weight: input.Body.Weight,
		})
		return respond(ctx, s, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "navigate",
		Method:      http.MethodPost,
		Path:        "/v1/app/navigate",
		Summary:     "Switch page",
		Description: "Opening the dashboard without a stored profile redirects to setup.",
		Tags:        []string{"App"},
	}, func(ctx context.Context, input *NavigateInput) (*StateOutput, error) {
		s, err := ctrl.Navigate(ctx, app.Page(input.Body.Page))
		return respond(ctx, s, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "go-back",
		Method:      http.MethodPost,
		Path:        "/v1/app/back",
		Summary:     "Go back one page",
		Tags:        []string{"App"},
	}, func(ctx context.Context, _ *struct{}) (*StateOutput, error) {
		s, err := ctrl.Back(ctx)
		return respond(ctx, s, err)
	})

	huma.Register(api, huma.Operation{
		OperationID: "reset",
		Method:      http.MethodPost,
		Path:        "/v1/app/reset",
		Summary:     "Clear the profile and return to setup",
		Tags:        []string{"App"},
	}, func(ctx context.Context, _ *struct{}) (*StateOutput, error) {
		s, err := ctrl.Reset(ctx)
		return respond(ctx, s, err)
	})
}
