package profile

import (
	"errors"
	"math"
	"testing"
)

func TestParseGoal(t *testing.T) {
	tests := []struct {
		in   string
		want Goal
		ok   bool
	}{
		{"reduce", GoalReduce, true},
		{" Balanced ", GoalBalanced, true},
		{"GAIN", GoalGain, true},
		{"减脂塑形", GoalReduce, true},
		{"均衡营养", GoalBalanced, true},
		{"增肌增重", GoalGain, true},
		{"减脂", "", false},
		{"保持健康", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseGoal(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("ParseGoal(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGoalLabel(t *testing.T) {
	if GoalBalanced.Label() != "均衡营养" {
		t.Fatalf("unexpected label %q", GoalBalanced.Label())
	}
	if Goal("unknown").Label() != "" {
		t.Fatal("expected empty label for unknown goal")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		goal   Goal
		height float64
		weight float64
		field  string
	}{
		{"valid", GoalBalanced, 170, 65, ""},
		{"lower bounds inclusive", GoalReduce, 140, 30, ""},
		{"upper bounds inclusive", GoalGain, 250, 200, ""},
		{"fractional", GoalBalanced, 170.5, 65.2, ""},
		{"unknown goal", Goal("减脂"), 170, 65, "goal"},
		{"empty goal", "", 170, 65, "goal"},
		{"height below", GoalBalanced, 139, 65, "height"},
		{"height above", GoalBalanced, 251, 65, "height"},
		{"height NaN", GoalBalanced, math.NaN(), 65, "height"},
		{"weight below", GoalBalanced, 170, 29.9, "weight"},
		{"weight above", GoalBalanced, 170, 201, "weight"},
		{"weight infinite", GoalBalanced, 170, math.Inf(1), "weight"},
		{"goal reported first", "bogus", 10, 10, "goal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.goal, tt.height, tt.weight)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Fatalf("expected field %s, got %s", tt.field, vErr.Field)
			}
			if vErr.Message == "" {
				t.Fatal("expected user-facing message")
			}
		})
	}
}
