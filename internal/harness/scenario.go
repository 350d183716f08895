package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a sequence of requests run against one seeded store.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description,omitempty"`

	// Now is the RFC 3339 instant date keywords resolve against.
	Now string `yaml:"now"`

	// Timezone is the IANA location keywords resolve in (default UTC).
	Timezone string `yaml:"timezone,omitempty"`

	// Fixtures is a fixture document imported before the first step.
	// Relative paths are resolved against the scenario file's directory.
	Fixtures string `yaml:"fixtures,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one request with its expectations.
type Step struct {
	Name string `yaml:"name"`

	// Request is a request document, checked against #Request.
	Request map[string]any `yaml:"request"`

	// Expect is optional; a step without one is only traced.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists the properties a step's outcome must have. Unset fields are
// not checked.
type Expect struct {
	// Error is the expected engine error code.
	Error string `yaml:"error,omitempty"`

	Count   *int     `yaml:"count,omitempty"`
	IDs     []string `yaml:"ids,omitempty"`
	Summary string   `yaml:"summary,omitempty"`

	// Result is the expected scalar aggregate; numbers compare within 1e-9.
	Result any `yaml:"result,omitempty"`

	Groups []ExpectGroup `yaml:"groups,omitempty"`
}

// ExpectGroup is one expected group of a grouped aggregate, in order.
type ExpectGroup struct {
	Key    []any `yaml:"key"`
	Result any   `yaml:"result"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Fixtures != "" && !filepath.IsAbs(scenario.Fixtures) {
		scenario.Fixtures = filepath.Join(filepath.Dir(path), scenario.Fixtures)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// now parses the scenario instant.
func (s *Scenario) now() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %w", err)
	}
	return t, nil
}

// location resolves the scenario timezone.
func (s *Scenario) location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Now == "" {
		return fmt.Errorf("now is required")
	}
	if _, err := s.now(); err != nil {
		return err
	}
	if _, err := s.location(); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}

	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
		if seen[step.Name] {
			return fmt.Errorf("steps[%d]: duplicate step name %q", i, step.Name)
		}
		seen[step.Name] = true
	}
	return nil
}

func validateStep(index int, step Step) error {
	if step.Name == "" {
		return fmt.Errorf("steps[%d]: name is required", index)
	}
	if step.Request == nil {
		return fmt.Errorf("steps[%d]: request is required", index)
	}

	e := step.Expect
	if e == nil || e.Error == "" {
		return nil
	}
	if len(e.IDs) > 0 || e.Summary != "" || e.Result != nil || len(e.Groups) > 0 {
		return fmt.Errorf("steps[%d]: expect.error cannot be combined with result expectations", index)
	}
	return nil
}
