// Package data loads the static choreography tables from YAML: the wave
// list and the named attack-dive profiles.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WaveEntry defines one wave's formation and timing overrides.
type WaveEntry struct {
	Wave          int     `yaml:"wave"`
	Formation     string  `yaml:"formation"`
	Count         int     `yaml:"count"`
	TargetRadius  float64 `yaml:"target_radius"`
	SpiralMs      int     `yaml:"spiral_ms"`      // 0 = use config default
	CurveProfile  string  `yaml:"curve_profile"`  // spiral entry shape
	AttackProfile string  `yaml:"attack_profile"` // dive shape, see AttackProfileTable
	ScoreValue    int     `yaml:"score_value"`
}

type waveListFile struct {
	Waves []WaveEntry `yaml:"waves"`
}

// WaveTable holds the wave sequence in play order. Waves past the end of
// the table wrap around (endless mode).
type WaveTable struct {
	waves []WaveEntry
}

// LoadWaveTable loads the wave sequence from a YAML file.
func LoadWaveTable(path string) (*WaveTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wave_list: %w", err)
	}
	var f waveListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse wave_list: %w", err)
	}
	if len(f.Waves) == 0 {
		return nil, fmt.Errorf("wave_list %s: no waves defined", path)
	}
	return &WaveTable{waves: f.Waves}, nil
}

// Get returns the entry for wave number n (1-based), wrapping past the end.
func (t *WaveTable) Get(n int) *WaveEntry {
	if len(t.waves) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	return &t.waves[(n-1)%len(t.waves)]
}

// Count returns the number of defined waves before wrap-around.
func (t *WaveTable) Count() int {
	return len(t.waves)
}

// AttackProfile names a dive shape: how hard and how often the dive curves
// away from the straight radial line.
type AttackProfile struct {
	Name           string  `yaml:"name"`
	CurveIntensity float64 `yaml:"curve_intensity"` // 0 = straight dive
	CurveFrequency float64 `yaml:"curve_frequency"` // oscillations per dive
}

type attackProfileFile struct {
	Profiles []AttackProfile `yaml:"profiles"`
}

// AttackProfileTable holds attack profiles indexed by name.
type AttackProfileTable struct {
	profiles map[string]*AttackProfile
}

// LoadAttackProfiles loads dive profiles from a YAML file.
func LoadAttackProfiles(path string) (*AttackProfileTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attack_profiles: %w", err)
	}
	var f attackProfileFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse attack_profiles: %w", err)
	}
	t := &AttackProfileTable{profiles: make(map[string]*AttackProfile, len(f.Profiles))}
	for i := range f.Profiles {
		p := &f.Profiles[i]
		t.profiles[p.Name] = p
	}
	return t, nil
}

// Get returns a profile by name, or nil if not found.
func (t *AttackProfileTable) Get(name string) *AttackProfile {
	if t == nil {
		return nil
	}
	return t.profiles[name]
}

// Count returns the number of loaded profiles.
func (t *AttackProfileTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.profiles)
}
