package cli

import (
	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pysetup",
		Short: "Pysetup scaffolds, checks, and explains Python project setup",
		Long: `Pysetup turns the usual Python project setup ritual into commands:
it scaffolds a project with a virtual environment, requirements.txt, tests,
and git; checks an existing project against the same conventions; and ships
the tutorial that explains every step.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		// main prints the returned error once; no need for cobra's copy.
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/pysetup/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.venvCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.envCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.guideCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
