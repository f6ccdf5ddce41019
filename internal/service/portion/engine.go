// Package portion turns a profile into a daily hand-portion plan.
//
// Units are hand measures: palms of protein, fists of carbohydrate, cupped
// hands of vegetables and thumbs of fat. Every value is rounded to the
// nearest half unit.
package portion

import (
	"context"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	applog "github.com/janisto/fistfuel/internal/platform/logging"
	"github.com/janisto/fistfuel/internal/platform/timeutil"
	"github.com/janisto/fistfuel/internal/service/profile"
)

// Formula constants.
const (
	baseWeightFactor = 10.0
	baseHeightFactor = 6.25
	baseOffset       = 150.0
	minBaseValue     = 800.0

	proteinShare        = 0.4
	carbShare           = 0.4
	fatShare            = 0.2
	caloriesPerPalm     = 150.0
	caloriesPerFist     = 150.0
	caloriesPerThumb    = 100.0
	breakfastVegetables = 0.0
	lunchVegetables     = 2.0
	dinnerVegetables    = 2.0
)

// Fallback inputs used when Calculate receives something it cannot plan for.
const (
	FallbackGoal   = profile.GoalBalanced
	FallbackHeight = 170.0
	FallbackWeight = 65.0
)

var multipliers = map[profile.Goal]float64{
	profile.GoalReduce:   1.1,
	profile.GoalBalanced: 1.3,
	profile.GoalGain:     1.5,
}

// Meal splits of the unrounded daily value: breakfast, lunch, dinner.
var (
	proteinSplit = [3]float64{0.3, 0.4, 0.3}
	carbSplit    = [3]float64{0.375, 0.625, 0}
	fatSplit     = [3]float64{0.3, 0.4, 0.3}
)

// Portions holds one value per food group in hand units.
type Portions struct {
	Protein   float64 `json:"protein"`
	Carb      float64 `json:"carb"`
	Vegetable float64 `json:"vegetable"`
	Fat       float64 `json:"fat"`
}

// Meals is the per-meal breakdown of a plan.
type Meals struct {
	Breakfast Portions `json:"breakfast"`
	Lunch     Portions `json:"lunch"`
	Dinner    Portions `json:"dinner"`
}

// Result is a computed plan together with the inputs and intermediate values
// it was derived from. Fallback is set when the inputs were rejected and the
// plan was computed from the fallback profile instead.
type Result struct {
	Goal          profile.Goal
	Height        float64
	Weight        float64
	Daily         Portions
	Meals         Meals
	BaseValue     float64
	TotalCalories float64
	CalculatedAt  time.Time
	Fallback      bool
}

// Engine computes plans. It holds no state besides its clock and is safe for
// concurrent use.
type Engine struct {
	now timeutil.Clock
}

// NewEngine creates an engine. A nil clock uses the system clock.
func NewEngine(clock timeutil.Clock) *Engine {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	return &Engine{now: clock}
}

// Calculate returns the plan for the given inputs. It never fails: inputs
// that do not pass profile.Validate produce the fallback plan with Fallback
// set and a warning logged.
func (e *Engine) Calculate(ctx context.Context, goal profile.Goal, height, weight float64) Result {
	if err := profile.Validate(goal, height, weight); err != nil {
		applog.LogWarn(ctx, "portion inputs rejected, using fallback plan",
			zap.Error(err),
			zap.String("goal", string(goal)),
			zap.Float64("height", height),
			zap.Float64("weight", weight),
		)
		r := e.compute(FallbackGoal, FallbackHeight, FallbackWeight)
		r.Fallback = true
		return r
	}
	return e.compute(goal, height, weight)
}

// CalculateProfile is Calculate for a stored profile.
func (e *Engine) CalculateProfile(ctx context.Context, p profile.Profile) Result {
	return e.Calculate(ctx, p.Goal, p.Height, p.Weight)
}

func (e *Engine) compute(goal profile.Goal, height, weight float64) Result {
	base := max(baseWeightFactor*weight+baseHeightFactor*height-baseOffset, minBaseValue)
	total := base * multipliers[goal]

	protein := total * proteinShare / caloriesPerPalm
	carb := total * carbShare / caloriesPerFist
	fat := total * fatShare / caloriesPerThumb

	vegetables := [3]float64{breakfastVegetables, lunchVegetables, dinnerVegetables}
	var meals [3]Portions
	for i := range meals {
		meals[i] = Portions{
			Protein:   RoundHalf(protein * proteinSplit[i]),
			Carb:      RoundHalf(carb * carbSplit[i]),
			Vegetable: vegetables[i],
			Fat:       RoundHalf(fat * fatSplit[i]),
		}
	}

	return Result{
		Goal:   goal,
		Height: height,
		Weight: weight,
		Daily: Portions{
			Protein:   RoundHalf(protein),
			Carb:      RoundHalf(carb),
			Vegetable: vegetables[0] + vegetables[1] + vegetables[2],
			Fat:       RoundHalf(fat),
		},
		Meals:         Meals{Breakfast: meals[0], Lunch: meals[1], Dinner: meals[2]},
		BaseValue:     base,
		TotalCalories: total,
		CalculatedAt:  e.now(),
	}
}

// RoundHalf rounds to the nearest 0.5 with halves rounded up:
// floor(x*2 + 0.5) / 2.
func RoundHalf(x float64) float64 {
	return math.Floor(x*2+0.5) / 2
}

// Approximate calories of one hand unit, used only for the summary line.
var unitCalories = Portions{Protein: 120, Carb: 100, Vegetable: 25, Fat: 80}

// EstimateCalories gives a rough calorie figure for a set of portions.
func EstimateCalories(p Portions) int {
	sum := p.Protein*unitCalories.Protein +
		p.Carb*unitCalories.Carb +
		p.Vegetable*unitCalories.Vegetable +
		p.Fat*unitCalories.Fat
	return int(math.Floor(sum + 0.5))
}

// Describe renders the daily portions as a one-line summary.
func Describe(r Result) string {
	d := r.Daily
	return "每日建议：蛋白质" + formatUnits(d.Protein) + "掌，碳水" + formatUnits(d.Carb) +
		"拳，蔬菜" + formatUnits(d.Vegetable) + "捧，脂肪" + formatUnits(d.Fat) +
		"拇指。总热量约" + strconv.Itoa(EstimateCalories(d)) + "卡路里。"
}

func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
