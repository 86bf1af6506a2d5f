package taillight

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config declares named signals to be wired up ahead of time, typically from
// an application's deployment configuration.
type Config struct {
	Signals []SignalConfig `yaml:"signals"`
}

// SignalConfig declares one named signal.
type SignalConfig struct {
	// Name is the identity the signal is registered under.
	Name string `yaml:"name"`

	// Direction is "ascending" (default) or "descending".
	Direction string `yaml:"direction"`

	// Policy is "shared" (default, weakly held), "strong" (held until
	// DeleteShared) or "unshared" (fresh instance on every Apply).
	Policy string `yaml:"policy"`
}

var signalNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._\-/]+$`)

// LoadConfig reads and parses a YAML signal declaration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the declaration for missing or malformed fields and fills
// in the defaults.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Signals))

	for i := range c.Signals {
		sc := &c.Signals[i]

		if sc.Name == "" {
			return fmt.Errorf("signals[%d]: name is required", i)
		}
		if !signalNamePattern.MatchString(sc.Name) {
			return fmt.Errorf("signals[%d]: name must match pattern [a-zA-Z0-9._/-]+", i)
		}
		if _, dup := seen[sc.Name]; dup {
			return fmt.Errorf("signals[%d]: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = struct{}{}

		switch sc.Direction {
		case "":
			sc.Direction = "ascending"
		case "ascending", "descending":
		default:
			return fmt.Errorf("signals[%d]: direction must be ascending or descending, got %q", i, sc.Direction)
		}

		switch sc.Policy {
		case "":
			sc.Policy = "shared"
		case "shared", "strong", "unshared":
		default:
			return fmt.Errorf("signals[%d]: policy must be shared, strong or unshared, got %q", i, sc.Policy)
		}
	}

	return nil
}

// Apply constructs every declared signal against the process-wide registries
// and returns them in declaration order. Extra options (such as WithLogger)
// apply to each construction.
func (c *Config) Apply(opts ...Option) ([]*Signal, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	signals := make([]*Signal, 0, len(c.Signals))
	for _, sc := range c.Signals {
		sigOpts := opts
		if sc.Direction == "descending" {
			sigOpts = append([]Option{WithDirection(Descending)}, opts...)
		}

		var sig *Signal
		switch sc.Policy {
		case "strong":
			sig = SharedStrong(sc.Name, sigOpts...)
		case "unshared":
			sig = NewNamed(sc.Name, sigOpts...)
		default:
			sig = Shared(sc.Name, sigOpts...)
		}
		signals = append(signals, sig)
	}

	return signals, nil
}
