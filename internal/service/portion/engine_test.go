package portion

import (
	"context"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	applog "github.com/janisto/fistfuel/internal/platform/logging"
	"github.com/janisto/fistfuel/internal/service/profile"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(func() time.Time { return fixedNow })
}

func TestCalculateBalancedReference(t *testing.T) {
	r := newTestEngine().Calculate(context.Background(), profile.GoalBalanced, 170, 65)

	if r.Fallback {
		t.Fatal("expected a real plan")
	}
	if r.BaseValue != 1562.5 {
		t.Fatalf("expected base 1562.5, got %v", r.BaseValue)
	}
	if r.TotalCalories != 2031.25 {
		t.Fatalf("expected total 2031.25, got %v", r.TotalCalories)
	}

	tests := []struct {
		name string
		got  Portions
		want Portions
	}{
		{"daily", r.Daily, Portions{Protein: 5.5, Carb: 5.5, Vegetable: 4, Fat: 4}},
		{"breakfast", r.Meals.Breakfast, Portions{Protein: 1.5, Carb: 2, Vegetable: 0, Fat: 1}},
		{"lunch", r.Meals.Lunch, Portions{Protein: 2, Carb: 3.5, Vegetable: 2, Fat: 1.5}},
		{"dinner", r.Meals.Dinner, Portions{Protein: 1.5, Carb: 0, Vegetable: 2, Fat: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, tt.got)
			}
		})
	}

	if r.Goal != profile.GoalBalanced || r.Height != 170 || r.Weight != 65 {
		t.Fatalf("unexpected metadata %+v", r)
	}
	if !r.CalculatedAt.Equal(fixedNow) {
		t.Fatalf("expected engine clock time, got %v", r.CalculatedAt)
	}
}

func TestCalculateGoalMultipliers(t *testing.T) {
	e := newTestEngine()
	base := 1562.5
	tests := []struct {
		goal       profile.Goal
		multiplier float64
	}{
		{profile.GoalReduce, 1.1},
		{profile.GoalBalanced, 1.3},
		{profile.GoalGain, 1.5},
	}
	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			r := e.Calculate(context.Background(), tt.goal, 170, 65)
			if want := base * tt.multiplier; r.TotalCalories != want {
				t.Fatalf("expected %v, got %v", want, r.TotalCalories)
			}
		})
	}
}

func TestCalculateGainReference(t *testing.T) {
	// base 10*80 + 6.25*180 - 150 = 1775, total 2662.5
	r := newTestEngine().Calculate(context.Background(), profile.GoalGain, 180, 80)
	if r.TotalCalories != 2662.5 {
		t.Fatalf("expected 2662.5, got %v", r.TotalCalories)
	}
	// protein = carb = 7.1, fat = 5.325
	want := Portions{Protein: 7, Carb: 7, Vegetable: 4, Fat: 5.5}
	if r.Daily != want {
		t.Fatalf("expected %+v, got %+v", want, r.Daily)
	}
}

func TestCalculateBoundariesAccepted(t *testing.T) {
	e := newTestEngine()
	cases := []struct {
		goal           profile.Goal
		height, weight float64
	}{
		{profile.GoalReduce, 140, 30},
		{profile.GoalGain, 250, 200},
		{profile.GoalBalanced, 140, 200},
	}
	for _, c := range cases {
		if r := e.Calculate(context.Background(), c.goal, c.height, c.weight); r.Fallback {
			t.Fatalf("expected %v/%v/%v to be accepted", c.goal, c.height, c.weight)
		}
	}
}

func TestCalculateFallback(t *testing.T) {
	reference := newTestEngine().Calculate(context.Background(), profile.GoalBalanced, 170, 65)

	cases := []struct {
		name           string
		goal           profile.Goal
		height, weight float64
	}{
		{"unknown goal", "maintain", 170, 65},
		{"height too low", profile.GoalBalanced, 139, 65},
		{"weight too high", profile.GoalBalanced, 170, 201},
		{"NaN", profile.GoalBalanced, math.NaN(), 65},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			ctx := applog.WithLogger(context.Background(), zap.New(core))

			r := newTestEngine().Calculate(ctx, c.goal, c.height, c.weight)
			if !r.Fallback {
				t.Fatal("expected fallback flag")
			}
			if r.Daily != reference.Daily || r.Meals != reference.Meals {
				t.Fatalf("expected fallback plan to equal the balanced/170/65 plan")
			}
			if r.Goal != FallbackGoal || r.Height != FallbackHeight || r.Weight != FallbackWeight {
				t.Fatalf("expected fallback inputs, got %v/%v/%v", r.Goal, r.Height, r.Weight)
			}
			if logs.Len() != 1 {
				t.Fatalf("expected one warning, got %d", logs.Len())
			}
		})
	}
}

func TestCalculateDeterministic(t *testing.T) {
	e := newTestEngine()
	for _, g := range profile.Goals {
		for h := 140.0; h <= 250; h += 13.5 {
			for w := 30.0; w <= 200; w += 17.25 {
				a := e.Calculate(context.Background(), g, h, w)
				b := e.Calculate(context.Background(), g, h, w)
				if a != b {
					t.Fatalf("non-deterministic result for %v/%v/%v", g, h, w)
				}
			}
		}
	}
}

func TestCalculateInvariants(t *testing.T) {
	e := newTestEngine()
	for _, g := range profile.Goals {
		for h := 140.0; h <= 250; h += 5 {
			for w := 30.0; w <= 200; w += 5 {
				r := e.Calculate(context.Background(), g, h, w)
				if r.BaseValue < minBaseValue {
					t.Fatalf("base below floor for %v/%v/%v", g, h, w)
				}
				if r.Meals.Dinner.Carb != 0 || r.Meals.Breakfast.Vegetable != 0 {
					t.Fatalf("unexpected fixed meal values for %v/%v/%v", g, h, w)
				}
				for _, v := range []float64{r.Daily.Protein, r.Daily.Carb, r.Daily.Fat} {
					if v*2 != math.Trunc(v*2) {
						t.Fatalf("value %v is not a half unit", v)
					}
				}
			}
		}
	}
}

func TestCalculateProfile(t *testing.T) {
	e := newTestEngine()
	p := profile.Profile{Goal: profile.GoalReduce, Height: 160, Weight: 55}
	if e.CalculateProfile(context.Background(), p) != e.Calculate(context.Background(), p.Goal, p.Height, p.Weight) {
		t.Fatal("expected CalculateProfile to match Calculate")
	}
}

func TestRoundHalf(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.24, 0},
		{0.25, 0.5},
		{0.74, 0.5},
		{0.75, 1},
		{1.625, 1.5},
		{5.4166, 5.5},
		{-0.25, 0},
	}
	for _, tt := range tests {
		if got := RoundHalf(tt.in); got != tt.want {
			t.Errorf("RoundHalf(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	r := newTestEngine().Calculate(context.Background(), profile.GoalBalanced, 170, 65)
	want := "每日建议：蛋白质5.5掌，碳水5.5拳，蔬菜4捧，脂肪4拇指。总热量约1630卡路里。"
	if got := Describe(r); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEstimateCalories(t *testing.T) {
	if got := EstimateCalories(Portions{Protein: 1, Carb: 1, Vegetable: 1, Fat: 1}); got != 325 {
		t.Fatalf("expected 325, got %d", got)
	}
}
