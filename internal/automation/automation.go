package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/sim"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Printer receives progress lines.
type Printer interface {
	Printf(format string, args ...any)
}

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a scenario. Zero values keep the preset's own
// settings.
type Step struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Interval float64            `yaml:"interval"`
	Payload  *float64           `yaml:"payload"`
	Params   map[string]float64 `yaml:"params"`
	Sweep    *SweepSpec         `yaml:"sweep"`
	Save     bool               `yaml:"save"`
}

// SweepSpec turns a step into a parameter sweep over Steps evenly spaced
// values.
type SweepSpec struct {
	Param string  `yaml:"param"`
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Steps int     `yaml:"steps"`
}

type StepResult struct {
	Step   Step
	Config *config.Config
	Result *sim.Result
	Sweep  []sim.SweepPoint
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyScenario, path)
	}

	return &scenario, nil
}

// StepConfig resolves the run configuration for a step.
func StepConfig(step Step) (*config.Config, error) {
	preset := step.Preset
	if preset == "" {
		preset = "default"
	}
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, err
	}

	if step.Duration > 0 {
		cfg.Run.Duration = step.Duration
	}
	if step.Interval > 0 {
		cfg.Run.Interval = step.Interval
	}

	est, err := arm.New(cfg.Arm)
	if err != nil {
		return nil, err
	}
	if step.Payload != nil {
		if err := est.SetParam("payload_mass", *step.Payload); err != nil {
			return nil, err
		}
	}
	for name, v := range step.Params {
		if err := est.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	cfg.Arm = est.Config()

	return cfg, cfg.Validate()
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, log Printer) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = step.Preset
		}
		printf(log, "step %d/%d: %s", i+1, len(scenario.Steps), name)

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		out := StepResult{Step: step, Config: cfg}
		if step.Sweep != nil {
			values := sim.Linspace(step.Sweep.From, step.Sweep.To, step.Sweep.Steps)
			out.Sweep, err = sim.Sweep(ctx, cfg.Arm, cfg.Motion, step.Sweep.Param, values, cfg.Run, metrics.Defaults)
			if err != nil {
				return results, fmt.Errorf("step %d sweep: %w", i+1, err)
			}
			printf(log, "step %d: swept %s over %d values", i+1, step.Sweep.Param, len(values))
		} else {
			est, err := arm.New(cfg.Arm)
			if err != nil {
				return results, fmt.Errorf("step %d setup: %w", i+1, err)
			}
			d := sim.New(est, cfg.Motion)
			for _, m := range metrics.Defaults(cfg.Arm) {
				d.AddMetric(m)
			}
			out.Result, err = d.Run(ctx, cfg.Run)
			if err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
			printf(log, "step %d: %d samples, energy %.4f Wh", i+1, len(out.Result.Samples), out.Result.Metrics["energy_wh"])
		}

		results = append(results, out)
	}

	return results, nil
}

func printf(p Printer, format string, args ...any) {
	if p != nil {
		p.Printf(format, args...)
	}
}

// RunSaver stores a finished run and returns its id.
type RunSaver interface {
	Save(preset string, cfg *config.Config, result *sim.Result) (string, error)
}

// SaveMarked stores every plain-run step marked save, in order. It works on
// the partial results of a failed scenario as well. The ids are keyed by
// step index.
func SaveMarked(s RunSaver, results []StepResult) (map[int]string, error) {
	ids := make(map[int]string)
	for i, r := range results {
		if !r.Step.Save || r.Result == nil {
			continue
		}
		preset := r.Step.Preset
		if preset == "" {
			preset = "default"
		}
		id, err := s.Save(preset, r.Config, r.Result)
		if err != nil {
			return ids, fmt.Errorf("step %d save: %w", i+1, err)
		}
		ids[i] = id
	}
	return ids, nil
}
