package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/project"
)

// projectsCommand groups the project registry operations.
func (c *CLI) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects this tool has set up",
	}

	cmd.AddCommand(c.projectsListCommand())
	cmd.AddCommand(c.projectsForgetCommand())

	return cmd
}

// projectsListCommand creates the "projects list" subcommand.
func (c *CLI) projectsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known projects, most recently seen first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := project.NewRegistry("")
			if err != nil {
				return err
			}
			projects, err := reg.List()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printInfo("No projects recorded yet")
				printDetail("projects are recorded when you run `pysetup new` or `pysetup doctor`")
				return nil
			}

			printInfo("%d known projects", len(projects))
			printNewline()

			nameWidth, pyWidth := 0, 0
			for _, p := range projects {
				if n := lipgloss.Width(p.Name); n > nameWidth {
					nameWidth = n
				}
				if n := lipgloss.Width(p.Python); n > pyWidth {
					pyWidth = n
				}
			}
			nameStyle := lipgloss.NewStyle().Foreground(colorWhite).Width(nameWidth + 2)
			dimCol := lipgloss.NewStyle().Foreground(colorDim)
			for _, p := range projects {
				fmt.Println("  " + nameStyle.Render(p.Name) +
					dimCol.Width(6).Render(p.Layout) +
					dimCol.Width(pyWidth+2).Render(p.Python) +
					dimCol.Width(12).Render(ago(p.LastSeen)) +
					StyleDim.Render(tildePath(p.Path)))
			}
			return nil
		},
	}
}

// projectsForgetCommand creates the "projects forget" subcommand.
func (c *CLI) projectsForgetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <name|path|id>",
		Short: "Drop a project from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := project.NewRegistry("")
			if err != nil {
				return err
			}
			removed, err := reg.Forget(args[0])
			if err != nil {
				return err
			}
			printSuccess("Forgot %s", removed.Name)
			printDetail("%s itself is untouched", tildePath(removed.Path))
			return nil
		},
	}
}

// ago renders a last-seen time compactly.
func ago(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// tildePath shortens a home-relative path for display.
func tildePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, home); ok {
		return "~" + rest
	}
	return path
}
