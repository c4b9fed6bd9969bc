package controllers

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/lockdiff/config"
	"github.com/rios0rios0/lockdiff/internal/domain/commands"
	"github.com/rios0rios0/lockdiff/internal/domain/entities"
)

// DiffController handles the root command: diff the lockfile between two
// points in history and print the report.
type DiffController struct {
	command commands.Diff
}

var _ entities.Controller = (*DiffController)(nil)

// NewDiffController creates a new DiffController.
func NewDiffController(command commands.Diff) *DiffController {
	return &DiffController{command: command}
}

// GetBind returns the Cobra command metadata for the diff controller.
func (it *DiffController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "lockdiff [revspec]",
		Short: "Check what changed about dependencies between versions",
		Long: `Compare the dependency lockfile between two points in a repository's
history and report added, removed, and version-changed dependencies.

The revspec is a single commit (compared against its first parent) or an
A..B range. Without a revspec the working-tree lockfile is compared
against the one committed at HEAD.`,
	}
}

// Execute runs one diff based on the CLI flags, with config-file values
// as defaults for flags the user did not set.
func (it *DiffController) Execute(cmd *cobra.Command, args []string) error {
	opts, err := it.resolveOptions(cmd, args)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	logger.Debugf("Diffing %q in %q (revspec %q)", opts.LockPath, opts.RepoDir, opts.Revspec)
	return it.command.Execute(cmd.Context(), opts, os.Stdout)
}

func (it *DiffController) resolveOptions(cmd *cobra.Command, args []string) (commands.DiffOptions, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return commands.DiffOptions{}, err
	}

	opts := commands.DiffOptions{
		LockPath:  cfg.Path,
		RepoDir:   cfg.Repo,
		Metadata:  cfg.Metadata,
		Changelog: cfg.Changelog,
	}
	if len(args) > 0 {
		opts.Revspec = args[0]
	}

	// Explicitly set flags win over config-file values.
	if cmd.Flags().Changed("path") {
		opts.LockPath, _ = cmd.Flags().GetString("path")
	}
	if cmd.Flags().Changed("git-repo") {
		opts.RepoDir, _ = cmd.Flags().GetString("git-repo")
	}
	if cmd.Flags().Changed("metadata") {
		opts.Metadata, _ = cmd.Flags().GetBool("metadata")
	}
	if cmd.Flags().Changed("changelog") {
		opts.Changelog, _ = cmd.Flags().GetBool("changelog")
	}

	return opts, nil
}
