package profile

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/fistfuel/internal/http/httperr"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
)

const exportFilename = "fistfuel-profile.json"

// Register registers profile endpoints.
func Register(api huma.API, svc profilesvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/v1/profile",
		Summary:     "Get the stored profile",
		Description: "Returns the stored profile. A corrupt record is discarded and reported as not found.",
		Tags:        []string{"Profile"},
	}, func(ctx context.Context, _ *ProfileGetInput) (*ProfileGetOutput, error) {
		p, err := svc.Load(ctx)
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &ProfileGetOutput{Body: FromProfile(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-profile",
		Method:      http.MethodPut,
		Path:        "/v1/profile",
		Summary:     "Save the profile",
		Description: "Validates and stores the profile, replacing any existing one.",
		Tags:        []string{"Profile"},
	}, func(ctx context.Context, input *ProfileSaveInput) (*ProfileSaveOutput, error) {
		p := profilesvc.Profile{
			Goal:   parseGoal(input.Body.Goal),
			Height: input.Body.Height,
			Weight: input.Body.Weight,
		}
		if err := svc.Save(ctx, p); err != nil {
			return nil, httperr.From(ctx, err)
		}
		saved, err := svc.Load(ctx)
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &ProfileSaveOutput{
			Location: "/v1/profile",
			Body:     FromProfile(saved),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/v1/profile",
		Summary:     "Update the profile",
		Description: "Updates the provided fields of the stored profile. Only provided fields change.",
		Tags:        []string{"Profile"},
	}, func(ctx context.Context, input *ProfileUpdateInput) (*ProfileUpdateOutput, error) {
		if input.Body.Goal == nil && input.Body.Height == nil && input.Body.Weight == nil {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}
		params := profilesvc.UpdateParams{
			Height: input.Body.Height,
			Weight: input.Body.Weight,
		}
		if input.Body.Goal != nil {
			g := parseGoal(*input.Body.Goal)
			params.Goal = &g
		}
		p, err := svc.Update(ctx, params)
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &ProfileUpdateOutput{Body: FromProfile(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-profile",
		Method:        http.MethodDelete,
		Path:          "/v1/profile",
		Summary:       "Clear the profile",
		Description:   "Removes the stored profile. Succeeds when no profile exists.",
		Tags:          []string{"Profile"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, _ *ProfileDeleteInput) (*struct{}, error) {
		if err := svc.Clear(ctx); err != nil {
			return nil, httperr.From(ctx, err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-profile-stats",
		Method:      http.MethodGet,
		Path:        "/v1/profile/stats",
		Summary:     "Describe the stored record",
		Tags:        []string{"Profile"},
	}, func(ctx context.Context, _ *struct{}) (*ProfileStatsOutput, error) {
		return &ProfileStatsOutput{Body: toHTTPStats(svc.Stats(ctx))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-profile",
		Method:      http.MethodGet,
		Path:        "/v1/profile/export",
		Summary:     "Export the profile",
		Description: "Returns the public profile fields and the export time as an indented JSON document.",
		Tags:        []string{"Profile"},
	}, func(ctx context.Context, _ *struct{}) (*ProfileExportOutput, error) {
		data, err := svc.Export(ctx)
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &ProfileExportOutput{
			ContentType:        "application/json",
			ContentDisposition: `attachment; filename="` + exportFilename + `"`,
			Body:               data,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:      "import-profile",
		Method:           http.MethodPost,
		Path:             "/v1/profile/import",
		Summary:          "Import a profile",
		Description:      "Reads an exported document, keeps goal, height and weight, and saves them.",
		Tags:             []string{"Profile"},
		SkipValidateBody: true,
	}, func(ctx context.Context, input *ProfileImportInput) (*ProfileImportOutput, error) {
		p, err := svc.Import(ctx, input.RawBody)
		if err != nil {
			return nil, httperr.From(ctx, err)
		}
		return &ProfileImportOutput{Body: FromProfile(p)}, nil
	})
}

// parseGoal normalizes labels to codes. Unknown text is passed through so
// validation reports it.
func parseGoal(s string) profilesvc.Goal {
	if g, ok := profilesvc.ParseGoal(s); ok {
		return g
	}
	return profilesvc.Goal(s)
}
