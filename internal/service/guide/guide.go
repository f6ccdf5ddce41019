// Package guide serves the static hand-measure guide and goal descriptions.
package guide

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/janisto/fistfuel/internal/service/profile"
)

//go:embed guide.yaml
var defaultDocument []byte

// Measure maps one hand shape to the food group it estimates.
type Measure struct {
	Nutrient      string   `yaml:"nutrient" json:"nutrient"`
	NutrientLabel string   `yaml:"nutrient_label" json:"nutrientLabel"`
	Hand          string   `yaml:"hand" json:"hand"`
	Emoji         string   `yaml:"emoji" json:"emoji"`
	Unit          string   `yaml:"unit" json:"unit"`
	Description   string   `yaml:"description" json:"description"`
	Examples      []string `yaml:"examples" json:"examples"`
}

// GoalInfo describes one goal for the setup screen.
type GoalInfo struct {
	Goal        profile.Goal `yaml:"goal" json:"goal"`
	Label       string       `yaml:"label" json:"label"`
	Emoji       string       `yaml:"emoji" json:"emoji"`
	Description string       `yaml:"description" json:"description"`
}

// Catalogue is the full guide content.
type Catalogue struct {
	Title    string     `yaml:"title" json:"title"`
	Subtitle string     `yaml:"subtitle" json:"subtitle"`
	Measures []Measure  `yaml:"measures" json:"measures"`
	Tips     []string   `yaml:"tips" json:"tips"`
	Goals    []GoalInfo `yaml:"goals" json:"goals"`
}

// Parse decodes and checks a guide document.
func Parse(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse guide: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the embedded guide. It panics if the embedded document is
// malformed, which the package tests rule out.
func Default() *Catalogue {
	c, err := Parse(defaultDocument)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalogue) validate() error {
	if len(c.Measures) == 0 {
		return errors.New("guide: no measures")
	}
	for _, m := range c.Measures {
		if m.Nutrient == "" || m.Hand == "" {
			return fmt.Errorf("guide: incomplete measure %+v", m)
		}
	}
	seen := make(map[profile.Goal]bool, len(c.Goals))
	for _, g := range c.Goals {
		if !g.Goal.Valid() {
			return fmt.Errorf("guide: unknown goal %q", g.Goal)
		}
		seen[g.Goal] = true
	}
	for _, g := range profile.Goals {
		if !seen[g] {
			return fmt.Errorf("guide: goal %q is not described", g)
		}
	}
	return nil
}

// Goal returns the description of g, falling back to the balanced goal for an
// unknown value.
func (c *Catalogue) Goal(g profile.Goal) GoalInfo {
	var fallback GoalInfo
	for _, info := range c.Goals {
		if info.Goal == g {
			return info
		}
		if info.Goal == profile.GoalBalanced {
			fallback = info
		}
	}
	return fallback
}

// Measure returns the measure for a nutrient key such as "protein".
func (c *Catalogue) Measure(nutrient string) (Measure, bool) {
	for _, m := range c.Measures {
		if m.Nutrient == nutrient {
			return m, true
		}
	}
	return Measure{}, false
}
