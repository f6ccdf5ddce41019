package profile

import (
	"github.com/janisto/fistfuel/internal/platform/timeutil"
	profilesvc "github.com/janisto/fistfuel/internal/service/profile"
)

// Profile represents the stored profile in responses.
type Profile struct {
	Goal      string         `json:"goal"                doc:"Goal code"                enum:"reduce,balanced,gain" example:"balanced"`
	GoalLabel string         `json:"goalLabel"           doc:"Display label for the goal"                            example:"均衡营养"`
	Height    float64        `json:"height"              doc:"Height in centimeters"                                 example:"170"`
	Weight    float64        `json:"weight"              doc:"Weight in kilograms"                                   example:"65"`
	SavedAt   *timeutil.Time `json:"savedAt,omitempty"   doc:"When the profile was saved"                            example:"2024-01-15T10:30:00.000Z"`
	Version   string         `json:"version,omitempty"   doc:"Record format version"                                 example:"1.1"`
}

// Stats describes the stored record.
type Stats struct {
	Exists  bool           `json:"exists"            doc:"Whether a valid profile is stored"`
	Size    int            `json:"size"              doc:"Size of the stored record in bytes" example:"78"`
	SavedAt *timeutil.Time `json:"savedAt,omitempty" doc:"When the profile was saved"         example:"2024-01-15T10:30:00.000Z"`
	Version string         `json:"version,omitempty" doc:"Record format version"              example:"1.1"`
}

// FromProfile converts a service profile to its response model.
func FromProfile(p *profilesvc.Profile) Profile {
	out := Profile{
		Goal:      string(p.Goal),
		GoalLabel: p.Goal.Label(),
		Height:    p.Height,
		Weight:    p.Weight,
		Version:   p.Version,
	}
	if !p.SavedAt.IsZero() {
		out.SavedAt = &timeutil.Time{Time: p.SavedAt}
	}
	return out
}

func toHTTPStats(s profilesvc.Stats) Stats {
	out := Stats{Exists: s.Exists, Size: s.Size, Version: s.Version}
	if !s.SavedAt.IsZero() {
		out.SavedAt = &timeutil.Time{Time: s.SavedAt}
	}
	return out
}
