// Package runconfig loads the statum.yaml run configuration: manifest
// search paths, variable sections, and the privilege-escalation provider.
// Grounded on the teacher's internal/config/parser.go (ParseConfig's
// read-unmarshal-validate shape, line-number extraction from yaml errors)
// generalized from the teacher's Step-pipeline Config to statum's
// manifest-path/variables/privilege shape described in spec.md §5.
package runconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	statumerrors "github.com/cloudhex/statum/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

var validate = validator.New()

// Config is statum.yaml's decoded shape (spec.md §5).
type Config struct {
	ManifestPaths      []string                           `yaml:"manifest_paths" validate:"required,min=1"`
	Variables          map[string]map[string]interface{}  `yaml:"variables"`
	IncludeVariables   []string                           `yaml:"include_variables"`
	DisableUpdateCheck bool                               `yaml:"disable_update_check"`
	Privilege          string                             `yaml:"privilege"`
}

// fileNames are tried, in order, in each candidate directory.
var fileNames = []string{"statum.yaml", "statum.yml"}

// Discover locates statum.yaml: explicit takes precedence if non-empty (and
// it is a fatal error if that path does not exist); otherwise the current
// working directory is tried, then the platform config directory
// (os.UserConfigDir()/statum/).
func Discover(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("configuration file %s does not exist: %w", explicit, err)
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		if path, ok := findIn(cwd); ok {
			return path, nil
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		if path, ok := findIn(filepath.Join(dir, "statum")); ok {
			return path, nil
		}
	}

	return "", fmt.Errorf("no statum.yaml found in the working directory or platform config directory")
}

func findIn(dir string) (string, bool) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Load reads and decodes path, then applies every "-D key=value" override.
func Load(path string, overrides map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, statumerrors.NewParseError(path, 0, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, statumerrors.NewParseError(path, extractLine(err), err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, statumerrors.NewValidationError(path, err.Error(), err)
	}

	applyOverrides(&cfg, overrides)

	return &cfg, nil
}

// applyOverrides implements "-D section.key=value": each override sets a
// single variable inside cfg.Variables, creating the section if absent.
func applyOverrides(cfg *Config, overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	if cfg.Variables == nil {
		cfg.Variables = make(map[string]map[string]interface{})
	}

	for key, value := range overrides {
		section, name := splitOverrideKey(key)
		if cfg.Variables[section] == nil {
			cfg.Variables[section] = make(map[string]interface{})
		}
		cfg.Variables[section][name] = value
	}
}

// splitOverrideKey splits "section.name" into its two parts; a key with no
// "." is placed under the "default" section.
func splitOverrideKey(key string) (section, name string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return "default", key
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
