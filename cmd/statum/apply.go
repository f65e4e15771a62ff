package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudhex/statum/internal/graph"
	"github.com/cloudhex/statum/internal/logger"
	"github.com/cloudhex/statum/internal/manifest"
	"github.com/cloudhex/statum/internal/passwordmgr"
	"github.com/cloudhex/statum/internal/runconfig"
	"github.com/cloudhex/statum/internal/worker"
)

type applyOptions struct {
	dryRun      bool
	labelFilter string
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile machine state against the loaded manifests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "plan every manifest without executing any atom")
	cmd.Flags().StringVarP(&opts.labelFilter, "label", "l", "", "only run manifests carrying this label")

	return cmd
}

func runApply(cmd *cobra.Command, root *rootFlags, opts applyOptions) error {
	log := root.newLogger()

	dirs, cfg, err := resolveManifestDirs(root)
	if err != nil {
		return err
	}

	manifests, err := loadManifests(dirs, log)
	if err != nil {
		return usageError(err)
	}
	if len(manifests) == 0 {
		log.Warn("no manifests found", "dirs", dirs)
		return nil
	}

	g, err := graph.New(manifests)
	if err != nil {
		return usageError(err)
	}

	c := buildContexts(cfg)

	secret, stopElevation := maybeElevate(cmd, manifests, cfg, opts.dryRun, log)
	defer stopElevation()

	pool := worker.NewPool()
	results := pool.Run(cmd.Context(), g, worker.Options{
		DryRun:      opts.dryRun,
		LabelFilter: opts.labelFilter,
		Secret:      secret,
	}, c)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error(r.Err, "manifest failed", "manifest", r.ManifestName)
			continue
		}
		log.Info("manifest completed", "manifest", r.ManifestName)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d manifests failed", failed, len(results))
	}
	return nil
}

// maybeElevate prompts once for the elevation secret if any loaded manifest
// contains a privileged action, and starts the background keep-alive ticker
// (spec.md §4.3). Dry runs never prompt: no Exec atom will actually run.
func maybeElevate(cmd *cobra.Command, manifests []*manifest.Manifest, cfg *runconfig.Config, dryRun bool, log *logger.Logger) (string, func()) {
	if dryRun || !anyPrivileged(manifests) {
		return "", func() {}
	}

	provider := "sudo"
	if cfg != nil && cfg.Privilege != "" {
		provider = cfg.Privilege
	}

	mgr := passwordmgr.New(provider)
	if err := mgr.Prompt(cmd.OutOrStdout(), int(os.Stdin.Fd()), fmt.Sprintf("[%s] password: ", provider)); err != nil {
		log.Warn("could not prompt for elevation password; privileged actions will likely fail", "error", err)
		return "", func() {}
	}

	stop := mgr.KeepElevated(cmd.Context())
	return mgr.Secret(), stop
}

func anyPrivileged(manifests []*manifest.Manifest) bool {
	for _, m := range manifests {
		for _, a := range m.Actions {
			if a.IsPrivileged() {
				return true
			}
		}
	}
	return false
}
