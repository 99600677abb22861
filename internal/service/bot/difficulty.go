package bot

import (
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/domain"
)

// Profile bounds the work one difficulty may spend on a move.
type Profile struct {
	MaxDepth   int           `json:"max_depth"`
	NodeBudget int           `json:"node_budget"`
	TimeBudget time.Duration `json:"time_budget"`
	// Tolerance > 0 lets the bot pick randomly among root moves scoring
	// within Tolerance of the best one.
	Tolerance int `json:"tolerance"`
	// Tactical plays an immediate win, or blocks a single immediate
	// threat, before searching.
	Tactical bool `json:"tactical"`
}

type Profiles map[domain.Difficulty]Profile

func DefaultProfiles() Profiles {
	return Profiles{
		domain.Easy: {
			MaxDepth:   2,
			NodeBudget: 20_000,
			TimeBudget: 250 * time.Millisecond,
			Tolerance:  60,
		},
		domain.Medium: {
			MaxDepth:   4,
			NodeBudget: 200_000,
			TimeBudget: time.Second,
		},
		domain.Hard: {
			MaxDepth:   7,
			NodeBudget: 2_000_000,
			TimeBudget: 2 * time.Second,
			Tactical:   true,
		},
		domain.Insane: {
			MaxDepth:   12,
			NodeBudget: 8_000_000,
			TimeBudget: 5 * time.Second,
			Tactical:   true,
		},
	}
}

// Profile returns the configured profile, falling back to the defaults
// for difficulties the map leaves out.
func (p Profiles) Profile(d domain.Difficulty) (Profile, error) {
	if !d.Valid() {
		return Profile{}, domain.ErrUnknownDifficulty
	}
	if prof, ok := p[d]; ok {
		return prof.normalize(), nil
	}
	return DefaultProfiles()[d], nil
}

func (p Profile) normalize() Profile {
	if p.MaxDepth < 1 {
		p.MaxDepth = 1
	}
	if p.NodeBudget < 1 {
		p.NodeBudget = 1
	}
	if p.Tolerance < 0 {
		p.Tolerance = 0
	}
	return p
}
