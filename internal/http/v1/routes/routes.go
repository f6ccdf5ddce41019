package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/fistfuel/internal/app"
	guidehandler "github.com/janisto/fistfuel/internal/http/v1/guide"
	"github.com/janisto/fistfuel/internal/http/v1/plan"
	"github.com/janisto/fistfuel/internal/http/v1/profile"
	"github.com/janisto/fistfuel/internal/http/v1/wizard"
	"github.com/janisto/fistfuel/internal/service/guide"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Profiles   profilesvc.Service
	Calculator plan.Calculator
	Guide      *guide.Catalogue
	Controller *app.Controller
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, deps Dependencies) {
	profile.Register(api, deps.Profiles)
	plan.Register(api, deps.Calculator, deps.Profiles, deps.Guide)
	guidehandler.Register(api, deps.Guide)
	wizard.Register(api, deps.Controller, deps.Guide)
}
