// Package loader scans a manifest directory tree and decodes each YAML file
// into an internal/manifest.Manifest. Grounded on the teacher's
// internal/config/parser.go (yaml.v3 unmarshal + line-number extraction from
// parse errors) and internal/config/types.go (Step.UnmarshalYAML
// discriminated-union decode, generalized here from Step kinds to Action
// kinds).
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cloudhex/statum/internal/manifest"
	statumerrors "github.com/cloudhex/statum/pkg/errors"
)

// maxDepth bounds the recursive directory scan (spec.md §6).
const maxDepth = 9

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

var validate = validator.New()

// Warning is a non-fatal problem encountered while loading: a malformed
// manifest is skipped rather than aborting the whole load (spec.md §7
// LoadError).
type Warning struct {
	Path string
	Err  error
}

// Load scans dir recursively (ignoring any directory named "files",
// considering only .yaml/.yml, to a maximum depth of 9) and decodes every
// manifest file found. Malformed manifests are reported as Warnings, not
// fatal errors — sibling manifests still load.
func Load(dir string) ([]*manifest.Manifest, []Warning, error) {
	var manifests []*manifest.Manifest
	var warnings []Warning

	err := walk(dir, dir, 0, func(path string) {
		m, err := loadOne(dir, path)
		if err != nil {
			warnings = append(warnings, Warning{Path: path, Err: err})
			return
		}
		manifests = append(manifests, m)
	})
	if err != nil {
		return nil, warnings, err
	}

	return manifests, warnings, nil
}

func walk(root, dir string, depth int, visit func(path string)) error {
	if depth > maxDepth {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if entry.Name() == "files" {
				continue
			}
			if err := walk(root, path, depth+1, visit); err != nil {
				return err
			}
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		visit(path)
	}
	return nil
}

func loadOne(root, path string) (*manifest.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, statumerrors.NewParseError(path, 0, err)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, statumerrors.NewParseError(path, extractLine(err), err)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, statumerrors.NewValidationError(path, err.Error(), err)
	}

	name := doc.Name
	if name == "" {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		name = deriveName(rel)
	}

	actions, err := doc.toActions()
	if err != nil {
		return nil, err
	}

	return &manifest.Manifest{
		Name:    name,
		Labels:  doc.Labels,
		Where:   doc.Where,
		Depends: doc.Depends,
		Actions: actions,
		RootDir: filepath.Dir(path),
	}, nil
}

// deriveName implements spec.md §6's rule: path components joined by ".",
// trailing .yaml/.yml stripped, trailing "main" component stripped. So
// "foo/bar/main.yaml" -> "foo.bar"; "foo/bar.yaml" -> "foo.bar";
// "foo/bar/baz.yaml" -> "foo.bar.baz".
func deriveName(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	parts := strings.Split(rel, "/")
	if len(parts) > 0 && parts[len(parts)-1] == "main" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
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
