// Package config loads the optional .lockdiff.yaml file holding default
// values for the CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file auto-detected in the working
// directory when no --config flag is given.
const DefaultFileName = ".lockdiff.yaml"

const (
	defaultLockPath = "Cargo.lock"
	defaultRepoDir  = "."
)

// Config holds the defaults for one lockdiff run.
type Config struct {
	Path      string `yaml:"path"`      // lockfile path inside the repository
	Repo      string `yaml:"repo"`      // repository root
	Metadata  bool   `yaml:"metadata"`  // print metadata findings
	Changelog bool   `yaml:"changelog"` // print changelog additions
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads a configuration file, expanding ${ENV_VAR} placeholders in
// path values. An empty path auto-detects DefaultFileName; a missing
// file yields the built-in defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	cfg := &Config{Path: defaultLockPath, Repo: defaultRepoDir}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, unmarshalErr)
	}

	cfg.Path = expandEnv(cfg.Path)
	cfg.Repo = expandEnv(cfg.Repo)
	if cfg.Path == "" {
		cfg.Path = defaultLockPath
	}
	if cfg.Repo == "" {
		cfg.Repo = defaultRepoDir
	}

	logger.Debugf("Loaded config from %q", path)
	return cfg, nil
}

// expandEnv replaces ${VAR} placeholders with environment values,
// leaving unset placeholders untouched.
func expandEnv(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if resolved, ok := os.LookupEnv(name); ok {
			return resolved
		}
		return match
	})
}
