package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/guide"
)

// guideCommand creates the "guide" command.
func (c *CLI) guideCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "guide [step]",
		Short: "Read the built-in Python setup tutorial",
		Long: `Guide prints the tutorial this tool automates, in full or one step at a
time. Steps are addressed by number or slug, and the numbering is stable:
"step 3" always means the same thing, here and in doctor hints.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var slugs []string
			for _, s := range guide.Steps() {
				slugs = append(slugs, s.Slug+"\t"+s.Title)
			}
			return slugs, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runGuideAll(plain)
			}
			return runGuideStep(args[0], plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print without styling")

	return cmd
}

func runGuideAll(plain bool) error {
	steps := guide.Steps()
	if plain {
		fmt.Printf("Python project setup, step by step (%d steps)\n", len(steps))
	} else {
		fmt.Println(StyleTitle.Render("Python project setup, step by step"))
		printDetail("%d steps — read one with `pysetup guide <number>`", len(steps))
	}
	for _, step := range steps {
		fmt.Println()
		renderStep(step, plain)
	}
	return nil
}

func runGuideStep(arg string, plain bool) error {
	step, err := resolveStep(arg)
	if err != nil {
		return err
	}
	renderStep(step, plain)

	if next, ok := guide.ByNumber(step.Number + 1); ok && !plain {
		printNewline()
		printNextStep("Next up, "+next.Title, "pysetup guide "+strconv.Itoa(next.Number))
	}
	return nil
}

// resolveStep accepts a step number or a slug.
func resolveStep(arg string) (guide.Step, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if step, ok := guide.ByNumber(n); ok {
			return step, nil
		}
		return guide.Step{}, errors.New(errors.ErrCodeNotFound, "no step %d, the guide has %d", n, guide.Count())
	}
	if step, ok := guide.BySlug(arg); ok {
		return step, nil
	}
	return guide.Step{}, errors.New(errors.ErrCodeNotFound, "no guide step %q (run `pysetup guide` for the full list)", arg)
}

// renderStep prints one tutorial step. plain suppresses all styling so the
// output redirects cleanly to a file or pager.
func renderStep(step guide.Step, plain bool) {
	heading := fmt.Sprintf("%d. %s", step.Number, step.Title)

	if plain {
		fmt.Println(heading)
		fmt.Println(step.Summary)
		for _, par := range step.Body {
			fmt.Println()
			fmt.Println(par)
		}
		if len(step.Commands) > 0 {
			fmt.Println()
			for _, cmd := range step.Commands {
				fmt.Println("  $ " + cmd)
			}
		}
		if len(step.Files) > 0 {
			fmt.Println("Files: " + strings.Join(step.Files, ", "))
		}
		if step.Related != "" {
			fmt.Println("Automated by: " + step.Related)
		}
		return
	}

	fmt.Println(StyleTitle.Render(heading) + "  " + StyleDim.Render(step.Slug))
	printDetail("%s", step.Summary)

	body := lipgloss.NewStyle().Width(76).PaddingLeft(2)
	for _, par := range step.Body {
		printNewline()
		fmt.Println(body.Render(par))
	}

	if len(step.Commands) > 0 {
		printNewline()
		for _, cmd := range step.Commands {
			printCommand(cmd)
		}
	}
	for _, f := range step.Files {
		printFile(f)
	}
	if step.Related != "" {
		printNextStep("Automated by", step.Related)
	}
}
