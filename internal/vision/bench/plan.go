// Package bench measures the cost of visibility passes over generated
// worlds. A Plan lists scenarios (observer and target counts) and the
// methods to compare; the Runner executes each scenario for a number of
// iterations of a fixed number of scheduler ticks and records per-tick
// wall time and query counts.
package bench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Method selects the detector a run exercises.
type Method string

const (
	MethodDepthMap              Method = "DepthMap"
	MethodDepthMapNoSuppression Method = "DepthMapNoSuppression"
	MethodRaycast               Method = "Raycast"
)

// AllMethods lists every supported method in report order.
var AllMethods = []Method{MethodRaycast, MethodDepthMap, MethodDepthMapNoSuppression}

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	for _, m := range AllMethods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown method %q", s)
}

// Named population sizes.
const (
	Low  = 10
	High = 300
)

// Default run shape.
const (
	DefaultIterations = 10
	DefaultTicks      = 300
)

// Scenario is one observer/target population to benchmark.
type Scenario struct {
	Name       string `yaml:"name"`
	Agents     int    `yaml:"agents"`
	Targets    int    `yaml:"targets"`
	Occluders  int    `yaml:"occluders,omitempty"`
	Iterations int    `yaml:"iterations,omitempty"`
	Ticks      int    `yaml:"ticks,omitempty"`
	Seed       int64  `yaml:"seed,omitempty"`
	// OnlyThis restricts the plan to this scenario.
	OnlyThis bool `yaml:"only_this,omitempty"`
}

// Plan is a benchmark matrix.
type Plan struct {
	Methods   []Method   `yaml:"methods"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// DefaultPlan crosses Low and High agent and target counts for every method.
func DefaultPlan() Plan {
	sizes := []struct {
		name string
		n    int
	}{{"Low", Low}, {"High", High}}
	p := Plan{Methods: append([]Method(nil), AllMethods...)}
	for _, a := range sizes {
		for _, t := range sizes {
			p.Scenarios = append(p.Scenarios, Scenario{
				Name:    a.name + "_" + t.name,
				Agents:  a.n,
				Targets: t.n,
			})
		}
	}
	p.applyDefaults()
	return p
}

// LoadPlan reads a YAML plan from path.
func LoadPlan(path string) (Plan, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return Plan{}, fmt.Errorf("plan file must be YAML, got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes and validates a YAML plan, filling defaults. Unknown
// keys are rejected.
func ParsePlan(data []byte) (Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Plan{}, fmt.Errorf("failed to parse plan: %w", err)
	}
	if len(p.Methods) == 0 {
		p.Methods = append([]Method(nil), AllMethods...)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (p *Plan) applyDefaults() {
	for i := range p.Scenarios {
		s := &p.Scenarios[i]
		if s.Iterations == 0 {
			s.Iterations = DefaultIterations
		}
		if s.Ticks == 0 {
			s.Ticks = DefaultTicks
		}
		if s.Occluders == 0 {
			s.Occluders = max(4, (s.Agents+s.Targets)/10)
		}
		if s.Seed == 0 {
			s.Seed = int64(i + 1)
		}
	}
}

// Validate checks the plan is runnable.
func (p Plan) Validate() error {
	if len(p.Scenarios) == 0 {
		return fmt.Errorf("plan has no scenarios")
	}
	for _, m := range p.Methods {
		if _, err := ParseMethod(string(m)); err != nil {
			return err
		}
	}
	seen := make(map[string]bool)
	for i, s := range p.Scenarios {
		if s.Name == "" {
			return fmt.Errorf("scenario %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
		if s.Agents < 1 || s.Targets < 0 {
			return fmt.Errorf("scenario %q: need at least one agent and a non-negative target count", s.Name)
		}
		if s.Iterations < 1 || s.Ticks < 1 {
			return fmt.Errorf("scenario %q: iterations and ticks must be positive", s.Name)
		}
	}
	return nil
}

// Selected returns the scenarios to run: the first scenario marked
// OnlyThis, or all of them.
func (p Plan) Selected() []Scenario {
	for _, s := range p.Scenarios {
		if s.OnlyThis {
			return []Scenario{s}
		}
	}
	return p.Scenarios
}

// ParseCSVInts parses a comma-separated list of int values.
// Returns nil, nil for empty input strings.
func ParseCSVInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// MatrixPlan crosses every agent count with every target count.
func MatrixPlan(agents, targets []int, methods []Method, iterations, ticks int) Plan {
	p := Plan{Methods: methods}
	for _, a := range agents {
		for _, t := range targets {
			p.Scenarios = append(p.Scenarios, Scenario{
				Name:       fmt.Sprintf("A%d_T%d", a, t),
				Agents:     a,
				Targets:    t,
				Iterations: iterations,
				Ticks:      ticks,
			})
		}
	}
	if len(p.Methods) == 0 {
		p.Methods = append([]Method(nil), AllMethods...)
	}
	p.applyDefaults()
	return p
}
