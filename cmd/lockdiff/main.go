package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/lockdiff/config"
	"github.com/rios0rios0/lockdiff/internal/domain/entities"
)

func buildRootCommand(diffController entities.Controller) *cobra.Command {
	bind := diffController.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           bind.Use,
		Short:         bind.Short,
		Long:          bind.Long,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, args []string) error {
			return diffController.Execute(command, args)
		},
	}

	cmd.Flags().StringP("path", "p", "Cargo.lock",
		"Path to the lockfile inside the repository (assumed the same in both versions)")
	cmd.Flags().StringP("git-repo", "g", ".",
		"Path to the git repository with sources")
	cmd.Flags().BoolP("metadata", "m", false,
		"Print changes to important metadata (licenses, authors, build scripts, proc macros)")
	cmd.Flags().BoolP("changelog", "c", false,
		"Print additions to CHANGELOG.md (full set only together with --metadata)")
	cmd.Flags().String("config", "",
		"Path to config file (default: auto-detect "+config.DefaultFileName+")")
	cmd.Flags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	diffController := injectDiffController()
	cobraRoot := buildRootCommand(diffController)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'lockdiff': %s", err)
	}
}
