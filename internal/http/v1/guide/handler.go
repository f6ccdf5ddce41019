package guide

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	guidesvc "github.com/janisto/fistfuel/internal/service/guide"
)

// GuideOutput for GET /v1/guide
type GuideOutput struct {
	Body *guidesvc.Catalogue
}

// Register registers the guide endpoint.
func Register(api huma.API, catalogue *guidesvc.Catalogue) {
	huma.Register(api, huma.Operation{
		OperationID: "get-guide",
		Method:      http.MethodGet,
		Path:        "/v1/guide",
		Summary:     "Get the hand-measure guide",
		Description: "Returns the hand measures, tips and goal descriptions shown on the guide page.",
		Tags:        []string{"Guide"},
	}, func(_ context.Context, _ *struct{}) (*GuideOutput, error) {
		return &GuideOutput{Body: catalogue}, nil
	})
}
