package main

import (
	"fmt"
	"path/filepath"

	"github.com/cloudhex/statum/internal/contexts"
	"github.com/cloudhex/statum/internal/factsbuild"
	"github.com/cloudhex/statum/internal/loader"
	"github.com/cloudhex/statum/internal/logger"
	"github.com/cloudhex/statum/internal/manifest"
	"github.com/cloudhex/statum/internal/runconfig"
)

// resolveManifestDirs decides which directories to scan: -d bypasses
// statum.yaml entirely (no privilege provider, no variables beyond -D
// overrides); otherwise statum.yaml is discovered and loaded and its
// manifest_paths are resolved relative to the config file's directory.
func resolveManifestDirs(flags *rootFlags) ([]string, *runconfig.Config, error) {
	if flags.dir != "" {
		cfg := &runconfig.Config{}
		if len(flags.overrides) > 0 {
			cfg.Variables = map[string]map[string]interface{}{}
			for key, value := range flags.overrides {
				section, name := splitOverrideKey(key)
				if cfg.Variables[section] == nil {
					cfg.Variables[section] = map[string]interface{}{}
				}
				cfg.Variables[section][name] = value
			}
		}
		return []string{flags.dir}, cfg, nil
	}

	path, err := runconfig.Discover(flags.configPath)
	if err != nil {
		return nil, nil, usageError(err)
	}

	cfg, err := runconfig.Load(path, flags.overrides)
	if err != nil {
		return nil, nil, usageError(err)
	}

	base := filepath.Dir(path)
	dirs := make([]string, 0, len(cfg.ManifestPaths))
	for _, p := range cfg.ManifestPaths {
		if filepath.IsAbs(p) {
			dirs = append(dirs, p)
		} else {
			dirs = append(dirs, filepath.Join(base, p))
		}
	}
	return dirs, cfg, nil
}

// loadManifests loads every manifest under dirs, logging (but not failing
// on) per-file load warnings, matching spec.md §7's LoadError semantics.
func loadManifests(dirs []string, log *logger.Logger) ([]*manifest.Manifest, error) {
	var all []*manifest.Manifest
	for _, dir := range dirs {
		manifests, warnings, err := loader.Load(dir)
		if err != nil {
			return nil, fmt.Errorf("scan manifest directory %s: %w", dir, err)
		}
		for _, w := range warnings {
			log.Warn("skipping unloadable manifest", "path", w.Path, "error", w.Err)
		}
		all = append(all, manifests...)
	}
	return all, nil
}

func buildContexts(cfg *runconfig.Config) contexts.Contexts {
	var variables map[string]map[string]interface{}
	if cfg != nil {
		variables = cfg.Variables
	}
	return factsbuild.Build(variables)
}

func splitOverrideKey(key string) (section, name string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return "default", key
}
