package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/envfile"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/scaffold"
)

// envCommand groups the .env file helpers. Values never appear in any
// output; every subcommand works with key names only.
func (c *CLI) envCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage .env and .env.example",
		Long: `Env keeps the local .env file and its committed .env.example template in
step. Only key names are read and printed; the values stay in the file.`,
	}

	cmd.AddCommand(c.envInitCommand())
	cmd.AddCommand(c.envCheckCommand())

	return cmd
}

// envInitCommand creates the "env init" subcommand.
func (c *CLI) envInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create .env.example and a matching .env",
		Long: `Init writes the .env.example template and seeds .env from it. When the
project already has an .env.example, the existing keys win and .env is
seeded from those instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEnvInit(argOrDot(args), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}

func (c *CLI) runEnvInit(dir string, force bool) error {
	examplePath := filepath.Join(dir, envfile.ExampleName)
	envPath := filepath.Join(dir, envfile.Name)

	example := scaffold.EnvExample()

	if _, err := os.Stat(examplePath); err == nil && !force {
		existing, err := os.ReadFile(examplePath)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "reading %s", examplePath)
		}
		example = existing
		printDetail("%s already exists, keeping it", envfile.ExampleName)
	} else {
		if err := os.WriteFile(examplePath, example, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", examplePath)
		}
		printSuccess("Wrote %s", examplePath)
	}

	if _, err := os.Stat(envPath); err == nil && !force {
		printDetail("%s already exists, keeping it", envfile.Name)
	} else {
		// .env starts as a copy of the example; the user fills in the real
		// values. Readable by the owner only.
		if err := os.WriteFile(envPath, example, 0o600); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", envPath)
		}
		printSuccess("Wrote %s", envPath)
	}

	printNewline()
	printInfo("Open %s and fill in real values", envfile.Name)
	printDetail("%s stays out of git; %s is the committed template", envfile.Name, envfile.ExampleName)
	printNextStep("Verify the keys stay in step", "pysetup env check")
	return nil
}

// envCheckCommand creates the "env check" subcommand.
func (c *CLI) envCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir]",
		Short: "Compare .env keys against .env.example",
		Long: `Check compares the key names in .env against .env.example. Keys the
example declares but .env lacks fail the check; keys only .env has are
reported as warnings, since they may simply be missing from the template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEnvCheck(argOrDot(args))
		},
	}
}

func (c *CLI) runEnvCheck(dir string) error {
	envPath := filepath.Join(dir, envfile.Name)
	examplePath := filepath.Join(dir, envfile.ExampleName)

	diff, err := envfile.Compare(envPath, examplePath)
	if err != nil {
		if errors.Is(err, errors.ErrCodeFileNotFound) {
			printDetail("create both files with `pysetup env init`")
		}
		return err
	}

	if diff.Clean() {
		printSuccess("%s declares every key %s expects", envfile.Name, envfile.ExampleName)
		return nil
	}

	for _, key := range diff.Missing {
		printError("missing key %s", key)
	}
	for _, key := range diff.Extra {
		printWarning("extra key %s (not in %s)", key, envfile.ExampleName)
	}
	if len(diff.Missing) > 0 {
		return errors.New(errors.ErrCodeInvalidEnvKey,
			"%d keys from %s are missing in %s", len(diff.Missing), envfile.ExampleName, envfile.Name)
	}
	return nil
}

// argOrDot returns the single optional directory argument, default ".".
func argOrDot(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "."
}
