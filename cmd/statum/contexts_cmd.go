package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// newContextsCmd prints the fully resolved Contexts tree (user/os/env/
// variables) a manifest run would see, one section per top-level key sorted
// alphabetically within it. Grounded on
// original_source/app/src/commands/contexts.rs's per-section tree dump.
func newContextsCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contexts",
		Short: "Print the resolved context tree (user, os, env, variables)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := resolveManifestDirs(root)
			if err != nil {
				return err
			}

			c := buildContexts(cfg)
			out := cmd.OutOrStdout()

			sections := make([]string, 0, len(c))
			for name := range c {
				sections = append(sections, name)
			}
			sort.Strings(sections)

			for _, name := range sections {
				fmt.Fprintf(out, "%s:\n", name)
				values := c[name]
				if len(values) == 0 {
					fmt.Fprintln(out, "  <empty>")
					continue
				}
				keys := make([]string, 0, len(values))
				for k := range values {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "  %s: %v\n", k, values[k])
				}
			}

			return nil
		},
	}

	return cmd
}
