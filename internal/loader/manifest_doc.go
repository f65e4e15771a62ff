package loader

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/cloudhex/statum/internal/action"
)

// manifestDoc is the raw YAML shape of a manifest file (spec.md §6's
// abridged schema).
type manifestDoc struct {
	Name    string      `yaml:"name"`
	Labels  []string    `yaml:"labels"`
	Where   string      `yaml:"where"`
	Depends []string    `yaml:"depends"`
	Actions []actionDoc `yaml:"actions" validate:"dive"`
}

// actionDoc captures an Action's tag plus its kind-specific fields as a raw
// yaml.Node, decoded into a concrete Lowerer by decodeBody(). Mirrors the
// teacher's Step.UnmarshalYAML shadow-struct pattern
// (internal/config/types.go) generalized from Step kinds to Action kinds.
type actionDoc struct {
	Kind     string          `yaml:"action"`
	Where    string          `yaml:"where"`
	Variants []variantDoc    `yaml:"variants"`
	raw      yaml.Node
}

type variantDoc struct {
	Where string    `yaml:"where"`
	raw   yaml.Node `yaml:"-"`
}

func (a *actionDoc) UnmarshalYAML(value *yaml.Node) error {
	type shadow actionDoc
	var s shadow
	if err := value.Decode(&s); err != nil {
		return err
	}
	*a = actionDoc(s)
	a.raw = *value
	return nil
}

func (v *variantDoc) UnmarshalYAML(value *yaml.Node) error {
	type shadow struct {
		Where string `yaml:"where"`
	}
	var s shadow
	if err := value.Decode(&s); err != nil {
		return err
	}
	v.Where = s.Where
	v.raw = *value
	return nil
}

func (d *manifestDoc) toActions() ([]*action.Action, error) {
	out := make([]*action.Action, 0, len(d.Actions))
	for _, ad := range d.Actions {
		body, err := decodeBody(ad.Kind, &ad.raw)
		if err != nil {
			return nil, err
		}

		variants := make([]action.Variant, 0, len(ad.Variants))
		for _, vd := range ad.Variants {
			vbody, err := decodeBody(ad.Kind, &vd.raw)
			if err != nil {
				return nil, err
			}
			variants = append(variants, action.Variant{Where: vd.Where, Body: vbody})
		}

		out = append(out, &action.Action{
			Kind:     ad.Kind,
			Where:    ad.Where,
			Variants: variants,
			Body:     body,
			OnVariantError: func(i int, err error) {
				fmt.Fprintf(os.Stderr, "warning: variant %d for action %q failed to evaluate: %v\n", i, ad.Kind, err)
			},
		})
	}
	return out, nil
}

// decodeBody dispatches on kind to decode node into the concrete Lowerer
// the rest of internal/action expects. This is the table-driven dispatch
// spec.md §9's REDESIGN FLAGS calls for in place of the original's
// trait-object-per-action design.
func decodeBody(kind string, node *yaml.Node) (action.Lowerer, error) {
	switch kind {
	case "file.copy":
		var body action.FileCopy
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	case "file.link":
		var body action.FileLink
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	case "file.download":
		var body action.FileDownload
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	case "directory.copy":
		var body action.DirectoryCopy
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	case "directory.remove":
		var body action.DirectoryRemove
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	case "command.run":
		var body action.CommandRun
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	case "package.install":
		var body action.PackageInstall
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		body.GOOS = runtime.GOOS
		return body, nil
	case "package.repository":
		var body action.PackageRepository
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		body.GOOS = runtime.GOOS
		return body, nil
	case "binary.github":
		var body action.BinaryGithub
		if err := node.Decode(&body); err != nil {
			return nil, err
		}
		return body, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
}
