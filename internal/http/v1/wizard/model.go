package wizard

import (
	"github.com/janisto/fistfuel/internal/app"
	"github.com/janisto/fistfuel/internal/http/v1/plan"
	"github.com/janisto/fistfuel/internal/http/v1/profile"
	"github.com/janisto/fistfuel/internal/service/guide"
)

// State is what the client should render.
type State struct {
	Page    string           `json:"page"              doc:"Current page" enum:"setup,dashboard,guide" example:"dashboard"`
	Title   string           `json:"title"             doc:"Document title for the page" example:"今日规划 - 一拳膳食"`
	Profile *profile.Profile `json:"profile,omitempty" doc:"Stored profile, when known"`
	Plan    *plan.Plan       `json:"plan,omitempty"    doc:"Plan shown on the dashboard"`
}

func toHTTPState(s app.State, catalogue *guide.Catalogue) State {
	out := State{Page: string(s.Page), Title: s.Title}
	if s.Profile != nil {
		p := profile.FromProfile(s.Profile)
		out.Profile = &p
	}
	if s.Plan != nil {
		p := plan.FromResult(*s.Plan, catalogue)
		out.Plan = &p
	}
	return out
}
