// Package profile owns the single persisted user profile: its validation
// rules and its storage through a key-value backend.
package profile

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// Service errors
var (
	ErrNotFound      = errors.New("profile not found")
	ErrInvalidImport = errors.New("invalid profile import")
)

// Goal is the user's dietary objective.
type Goal string

const (
	GoalReduce   Goal = "reduce"
	GoalBalanced Goal = "balanced"
	GoalGain     Goal = "gain"
)

// Goals lists the accepted goals in display order.
var Goals = []Goal{GoalReduce, GoalBalanced, GoalGain}

var goalLabels = map[Goal]string{
	GoalReduce:   "减脂塑形",
	GoalBalanced: "均衡营养",
	GoalGain:     "增肌增重",
}

// Label returns the display label, or "" for an unknown goal.
func (g Goal) Label() string {
	return goalLabels[g]
}

// Valid reports whether g is one of Goals.
func (g Goal) Valid() bool {
	_, ok := goalLabels[g]
	return ok
}

// ParseGoal accepts a goal code or its display label, ignoring surrounding
// whitespace and the case of codes.
func ParseGoal(s string) (Goal, bool) {
	s = strings.TrimSpace(s)
	if g := Goal(strings.ToLower(s)); g.Valid() {
		return g, true
	}
	for g, label := range goalLabels {
		if s == label {
			return g, true
		}
	}
	return "", false
}

// Body metric bounds, inclusive.
const (
	MinHeight = 140.0
	MaxHeight = 250.0
	MinWeight = 30.0
	MaxWeight = 200.0
)

// Profile is the validated user profile. SavedAt and Version are set by the
// store and are zero for a profile that has not been persisted.
type Profile struct {
	Goal    Goal
	Height  float64
	Weight  float64
	SavedAt time.Time
	Version string
}

// ValidationError reports the first field that failed validation with a
// message suitable for showing to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// Validate is the single rule set for profile input. It returns nil or a
// *ValidationError for the first offending field in goal, height, weight order.
func Validate(goal Goal, height, weight float64) error {
	if !goal.Valid() {
		return &ValidationError{Field: "goal", Message: "请选择目标"}
	}
	if !inRange(height, MinHeight, MaxHeight) {
		return &ValidationError{Field: "height", Message: "请输入有效身高 (140-250cm)"}
	}
	if !inRange(weight, MinWeight, MaxWeight) {
		return &ValidationError{Field: "weight", Message: "请输入有效体重 (30-200kg)"}
	}
	return nil
}

// Validate checks the profile's public fields.
func (p Profile) Validate() error {
	return Validate(p.Goal, p.Height, p.Weight)
}

// inRange is false for NaN and infinities.
func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// UpdateParams for updating a profile. Nil fields keep their current value.
type UpdateParams struct {
	Goal   *Goal
	Height *float64
	Weight *float64
}

// Stats describes the stored record without exposing its contents.
type Stats struct {
	Exists  bool
	Size    int
	SavedAt time.Time
	Version string
}

// Service defines profile operations.
type Service interface {
	Save(ctx context.Context, p Profile) error
	Load(ctx context.Context) (*Profile, error)
	Clear(ctx context.Context) error
	Exists(ctx context.Context) bool
	Stats(ctx context.Context) Stats
	Update(ctx context.Context, params UpdateParams) (*Profile, error)
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (*Profile, error)
}

// Compile-time interface check
var _ Service = (*Store)(nil)
