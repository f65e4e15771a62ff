// Package factsbuild assembles the "user", "os", "env", and "variables"
// Contexts sections the CLI hands to every manifest run. Grounded on
// original_source/src/contexts/{user,os,variables}.rs's per-provider
// key/value gathering, collapsed here into one function per section since
// Go favors composition over a provider trait object for a fixed, known
// set of sections (spec.md §9 REDESIGN FLAGS).
package factsbuild

import (
	"os"
	"os/user"
	"runtime"
	"strings"

	"github.com/cloudhex/statum/internal/contexts"
)

// Build assembles the full Contexts tree for a run: ambient user/os/env
// facts plus the config's variables sections.
func Build(variables map[string]map[string]interface{}) contexts.Contexts {
	sections := map[string]map[string]contexts.Value{
		"user": userSection(),
		"os":   osSection(),
		"env":  envSection(),
	}

	for section, values := range variables {
		dest := make(map[string]contexts.Value, len(values))
		for k, v := range values {
			dest[k] = v
		}
		sections[section] = dest
	}

	return contexts.New(sections)
}

func userSection() map[string]contexts.Value {
	values := map[string]contexts.Value{}

	u, err := user.Current()
	if err != nil {
		return values
	}
	values["username"] = u.Username
	values["name"] = u.Name
	values["home_dir"] = u.HomeDir

	if dir, err := os.UserConfigDir(); err == nil {
		values["config_dir"] = dir
	}
	return values
}

func osSection() map[string]contexts.Value {
	return map[string]contexts.Value{
		"name": runtime.GOOS,
		"arch": runtime.GOARCH,
	}
}

func envSection() map[string]contexts.Value {
	values := map[string]contexts.Value{}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}
