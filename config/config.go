// Package config holds the settings that parameterize a parallel scan.
//
// A Settings value is a snapshot: scans copy it on entry and never observe
// later modifications. Settings can be built in code starting from Default,
// or loaded from a YAML file such as
//
//	max_workers: 8
//	dilatation: 1.5
//	algorithm: linear
//	minimal_n: 1000
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/exascience/pscan"
)

// An Algorithm selects the parallel partial sum algorithm.
type Algorithm int

const (
	// Linear is the two-phase algorithm without recursion: local
	// reductions, a sequential carry correction, and local scans.
	Linear Algorithm = iota

	// Recursive is reserved for a recursive up-sweep/down-sweep algorithm.
	// It is not implemented, and scans that select it panic.
	Recursive
)

var algorithmNames = [...]string{
	Linear:    "linear",
	Recursive: "recursive",
}

func (a Algorithm) String() string {
	if a >= 0 && int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Implemented reports whether scans can run with a.
func (a Algorithm) Implemented() bool {
	return a == Linear
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(algorithmNames) {
		return nil, fmt.Errorf("unknown algorithm %v", int(a))
	}
	return []byte(algorithmNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range algorithmNames {
		if n == name {
			*a = Algorithm(i)
			return nil
		}
	}
	return fmt.Errorf("unknown algorithm %q", text)
}

// ParseAlgorithm returns the algorithm with the given name.
func ParseAlgorithm(name string) (a Algorithm, err error) {
	err = a.UnmarshalText([]byte(name))
	return
}

// Settings parameterize a parallel scan.
type Settings struct {
	// MaxWorkers is the ceiling on the number of workers. If it is 0,
	// pscan.MaxWorkerCount() is used.
	MaxWorkers int `yaml:"max_workers"`

	// Dilatation skews the chunk sizes: values above 1 give the first
	// chunk more elements than the others, values below 1 fewer. If it is
	// 0, 1 is used.
	Dilatation float64 `yaml:"dilatation"`

	// Algorithm selects the parallel algorithm.
	Algorithm Algorithm `yaml:"algorithm"`

	// MinimalN is the input size below which scans run sequentially.
	MinimalN int `yaml:"minimal_n"`
}

// Default returns the default settings: as many workers as
// pscan.MaxWorkerCount(), no dilatation, the linear algorithm, and
// sequential scans for fewer than 1000 elements.
func Default() Settings {
	return Settings{
		Dilatation: 1.0,
		Algorithm:  Linear,
		MinimalN:   1000,
	}
}

// Workers returns the effective worker ceiling.
func (s Settings) Workers() int {
	if s.MaxWorkers == 0 {
		return pscan.MaxWorkerCount()
	}
	return s.MaxWorkers
}

// EffectiveDilatation returns the effective dilatation factor.
func (s Settings) EffectiveDilatation() float64 {
	if s.Dilatation == 0 {
		return 1.0
	}
	return s.Dilatation
}

// Validate checks that all fields have usable values.
func (s Settings) Validate() error {
	switch {
	case s.MaxWorkers < 0:
		return fmt.Errorf("invalid max_workers: %v", s.MaxWorkers)
	case s.Dilatation < 0 || math.IsNaN(s.Dilatation) || math.IsInf(s.Dilatation, 0):
		return fmt.Errorf("invalid dilatation: %v", s.Dilatation)
	case !s.Algorithm.Implemented():
		return fmt.Errorf("unsupported algorithm: %v", s.Algorithm)
	case s.MinimalN < 0:
		return fmt.Errorf("invalid minimal_n: %v", s.MinimalN)
	}
	return nil
}

// Parse decodes YAML settings on top of Default and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads settings from a YAML file, see Parse.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
