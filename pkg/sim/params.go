package sim

import (
	"math"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// SoftNodeLimit is the node count above which a tick is likely to miss a
// 60 fps frame budget.
const SoftNodeLimit = 500

// Params are the physical constants of the simulation.
type Params struct {
	Gravity           float64 `toml:"gravity"`
	RepulsionScale    float64 `toml:"repulsion_scale"`
	RepulsionStrength float64 `toml:"repulsion_strength"`
	IdealDistance     float64 `toml:"ideal_distance"`
	SpringStrength    float64 `toml:"spring_strength"`
	Damping           float64 `toml:"damping"`
	Alpha             float64 `toml:"alpha"`
	Margin            float64 `toml:"margin"`
	Jitter            float64 `toml:"jitter"`

	// AlphaDecay > 0 enables settle mode.
	AlphaDecay float64 `toml:"alpha_decay"`
	AlphaMin   float64 `toml:"alpha_min"`
}

// DefaultParams returns the standard constants.
func DefaultParams() Params {
	return Params{
		Gravity:           0.01,
		RepulsionScale:    3,
		RepulsionStrength: 1,
		IdealDistance:     150,
		SpringStrength:    0.03,
		Damping:           0.8,
		Alpha:             0.3,
		Margin:            50,
		Jitter:            100,
		AlphaDecay:        0,
		AlphaMin:          0.001,
	}
}

// Validate rejects constants that would make the integration diverge or
// produce NaN positions.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"gravity", p.Gravity},
		{"repulsion_scale", p.RepulsionScale},
		{"repulsion_strength", p.RepulsionStrength},
		{"ideal_distance", p.IdealDistance},
		{"spring_strength", p.SpringStrength},
		{"damping", p.Damping},
		{"alpha", p.Alpha},
		{"margin", p.Margin},
		{"jitter", p.Jitter},
		{"alpha_decay", p.AlphaDecay},
		{"alpha_min", p.AlphaMin},
	}
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errs.New(errs.ErrCodeInvalidInput, "physics %s must be a non-negative number, got %v", f.name, f.v)
		}
	}
	if p.Damping >= 1 {
		return errs.New(errs.ErrCodeInvalidInput, "physics damping must be below 1, got %v", p.Damping)
	}
	if p.AlphaDecay >= 1 {
		return errs.New(errs.ErrCodeInvalidInput, "physics alpha_decay must be below 1, got %v", p.AlphaDecay)
	}
	return nil
}
