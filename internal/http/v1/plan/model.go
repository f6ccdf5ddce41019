package plan

import (
	"github.com/janisto/fistfuel/internal/platform/timeutil"
	"github.com/janisto/fistfuel/internal/service/guide"
	"github.com/janisto/fistfuel/internal/service/portion"
)

// Portions are hand-measure amounts for one meal or a whole day.
type Portions struct {
	Protein   float64 `json:"protein"   doc:"Palms of protein"             example:"5.5"`
	Carb      float64 `json:"carb"      doc:"Fists of carbohydrate"        example:"5.5"`
	Vegetable float64 `json:"vegetable" doc:"Cupped hands of vegetables"   example:"4"`
	Fat       float64 `json:"fat"       doc:"Thumbs of fat"                example:"4"`
}

// Meals splits the day into breakfast, lunch and dinner.
type Meals struct {
	Breakfast Portions `json:"breakfast"`
	Lunch     Portions `json:"lunch"`
	Dinner    Portions `json:"dinner"`
}

// Plan is a computed daily plan.
type Plan struct {
	Goal              string        `json:"goal"              doc:"Goal the plan was computed for" example:"balanced"`
	GoalLabel         string        `json:"goalLabel"         doc:"Display label for the goal"     example:"均衡营养"`
	GoalDescription   string        `json:"goalDescription"   doc:"Short description of the goal"  example:"为身体和大脑提供每日活力"`
	Height            float64       `json:"height"            doc:"Height in centimeters"          example:"170"`
	Weight            float64       `json:"weight"            doc:"Weight in kilograms"            example:"65"`
	Daily             Portions      `json:"daily"             doc:"Daily totals"`
	Meals             Meals         `json:"meals"             doc:"Per-meal portions"`
	BaseValue         float64       `json:"baseValue"         doc:"Base energy value before the goal multiplier" example:"1562.5"`
	TotalCalories     float64       `json:"totalCalories"     doc:"Daily energy target"            example:"2031.25"`
	EstimatedCalories int           `json:"estimatedCalories" doc:"Rough calories of the rounded daily portions" example:"1630"`
	Summary           string        `json:"summary"           doc:"One-line description of the plan"`
	CalculatedAt      timeutil.Time `json:"calculatedAt"      doc:"When the plan was computed"     example:"2024-01-15T10:30:00.000Z"`
	Fallback          bool          `json:"fallback"          doc:"True when the inputs were rejected and the default plan was returned"`
}

// FromResult converts an engine result, taking goal texts from the guide.
func FromResult(r portion.Result, catalogue *guide.Catalogue) Plan {
	info := catalogue.Goal(r.Goal)
	return Plan{
		Goal:            string(r.Goal),
		GoalLabel:       info.Label,
		GoalDescription: info.Description,
		Height:          r.Height,
		Weight:          r.Weight,
		Daily:           toPortions(r.Daily),
		Meals: Meals{
			Breakfast: toPortions(r.Meals.Breakfast),
			Lunch:     toPortions(r.Meals.Lunch),
			Dinner:    toPortions(r.Meals.Dinner),
		},
		BaseValue:         r.BaseValue,
		TotalCalories:     r.TotalCalories,
		EstimatedCalories: portion.EstimateCalories(r.Daily),
		Summary:           portion.Describe(r),
		CalculatedAt:      timeutil.Time{Time: r.CalculatedAt},
		Fallback:          r.Fallback,
	}
}

func toPortions(p portion.Portions) Portions {
	return Portions{Protein: p.Protein, Carb: p.Carb, Vegetable: p.Vegetable, Fat: p.Fat}
}
