package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/scoring"
	"github.com/Jhananishri-B/Learnquest-certificate/pkg/violation"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600
)

// RuleConfig overrides the penalty and detection threshold for one
// violation type.
type RuleConfig struct {
	Penalty   int `yaml:"penalty"`
	Threshold int `yaml:"threshold"`
}

// ScoringConfig tunes the session scoring rules. Zero values fall back
// to the defaults, so a partial config tunes only what it names.
type ScoringConfig struct {
	BehaviorWeight       float64               `yaml:"behavior_weight"`
	TestWeight           float64               `yaml:"test_weight"`
	EligibilityThreshold float64               `yaml:"eligibility_threshold"`
	CooldownSeconds      float64               `yaml:"cooldown_seconds"`
	Violations           map[string]RuleConfig `yaml:"violations"`
}

// Config represents the app config object.
type Config struct {
	Address string        `yaml:"address"`
	DBPath  string        `yaml:"db"`
	Scoring ScoringConfig `yaml:"scoring"`
}

func getDefaultConfig() *Config {
	return &Config{
		Address: "127.0.0.1:8080",
	}
}

// Rules materializes the scoring rule table: defaults overlaid with
// whatever this config overrides.
func (c *Config) Rules() scoring.Rules {
	rules := scoring.DefaultRules()

	s := c.Scoring
	if s.BehaviorWeight > 0 {
		rules.BehaviorWeight = s.BehaviorWeight
	}
	if s.TestWeight > 0 {
		rules.TestWeight = s.TestWeight
	}
	if s.EligibilityThreshold > 0 {
		rules.EligibilityThreshold = s.EligibilityThreshold
	}
	if s.CooldownSeconds > 0 {
		rules.Cooldown = time.Duration(s.CooldownSeconds * float64(time.Second))
	}
	for name, rc := range s.Violations {
		t := violation.Type(name)
		r := rules.Violations[t]
		if rc.Penalty > 0 {
			r.Penalty = rc.Penalty
		}
		if rc.Threshold > 0 {
			r.Threshold = rc.Threshold
		}
		rules.Violations[t] = r
	}

	return rules
}

// Save writes the config into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads the app config from a directory or creates a new
// one with defaults.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Debugf("creating default config: %s", path)
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	j, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer j.Close()

	b, err := io.ReadAll(j)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	return &c, nil
}
