// Package generator produces the quarterly fixture files the dashboard
// consumes. Output is deterministic for a given seed and profile.
package generator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Clamp bounds a generated value.
type Clamp struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (c Clamp) apply(v float64) float64 {
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}

// Profile tunes the trend slope, noise and clamps of generated metrics.
type Profile struct {
	// TrendPerQuarter is the relative drift applied per quarter away from
	// the baseline quarter. Positive offsets improve, negative degrade.
	TrendPerQuarter float64 `yaml:"trend_per_quarter"`
	// Volatility is the relative jitter band around the trended value.
	Volatility float64 `yaml:"volatility"`

	Clamps struct {
		Score       Clamp `yaml:"score"`
		Percent     Clamp `yaml:"percent"`
		Training    Clamp `yaml:"training"`
		Sanctions   Clamp `yaml:"sanctions"`
		FraudRate   Clamp `yaml:"fraud_rate"`
		TestingPass Clamp `yaml:"testing_pass"`
	} `yaml:"clamps"`
}

// DefaultProfile returns the tuning the shipped fixtures were built with.
func DefaultProfile() Profile {
	var p Profile
	p.TrendPerQuarter = 0.015
	p.Volatility = 0.02
	p.Clamps.Score = Clamp{Min: 60, Max: 95}
	p.Clamps.Percent = Clamp{Min: 0, Max: 100}
	p.Clamps.Training = Clamp{Min: 80, Max: 99}
	p.Clamps.Sanctions = Clamp{Min: 95, Max: 100}
	p.Clamps.FraudRate = Clamp{Min: 0.0001, Max: 0.01}
	p.Clamps.TestingPass = Clamp{Min: 75, Max: 98}
	return p
}

// LoadProfile reads a YAML profile over the defaults, so a file only needs to
// name the fields it overrides.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}
