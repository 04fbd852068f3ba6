package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/larrypadri/pysetup/pkg/depgraph"
	"github.com/larrypadri/pysetup/pkg/deps"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/project"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// depsCommand groups the requirements.txt operations.
func (c *CLI) depsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage the project's requirements.txt",
		Long: `Deps reads and edits requirements.txt the way the tutorial teaches:
one specifier per line, pinned to exact versions. Comments, blank lines
and pip options in the file are left exactly as they are.`,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", ".", "project directory")

	cmd.AddCommand(c.depsListCommand(&dir))
	cmd.AddCommand(c.depsAddCommand(&dir))
	cmd.AddCommand(c.depsRemoveCommand(&dir))
	cmd.AddCommand(c.depsGraphCommand(&dir))

	return cmd
}

// depsListCommand creates the "deps list" subcommand.
func (c *CLI) depsListCommand(dir *string) *cobra.Command {
	var latest bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List requirements with their installed versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDepsList(cmd.Context(), *dir, latest)
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "also look up the latest release of each package on PyPI")

	return cmd
}

func (c *CLI) runDepsList(ctx context.Context, dir string, latest bool) error {
	doc, path, err := loadRequirements(dir, false)
	if err != nil {
		return err
	}

	entries := doc.Entries()
	if len(entries) == 0 {
		printInfo("%s has no entries", path)
		printDetail("add one with `pysetup deps add <package>`")
		return nil
	}

	installed := c.installedVersions(ctx, dir)

	var latestVersions map[string]string
	if latest {
		latestVersions, err = c.latestVersions(ctx, entries)
		if err != nil {
			return err
		}
	}

	printInfo("%d requirements in %s", len(entries), path)
	printNewline()

	nameWidth := 0
	for _, req := range entries {
		if n := lipgloss.Width(req.Name); n > nameWidth {
			nameWidth = n
		}
	}
	for _, req := range entries {
		fmt.Println(depsRow(req, nameWidth, installed, latestVersions))
	}

	if installed == nil {
		printNewline()
		printDetail("no virtual environment found, installed versions unknown (run `pysetup venv`)")
	}
	return nil
}

// depsRow renders one list line: the name, its constraint, and what pip and
// PyPI know about the package.
func depsRow(req deps.Requirement, nameWidth int, installed, latest map[string]string) string {
	name := lipgloss.NewStyle().Foreground(colorWhite).Width(nameWidth + 2).Render(req.Name)

	constraint := req.Constraint
	if constraint == "" {
		constraint = "(any)"
	}

	var notes []string
	if installed != nil {
		if v, ok := installed[req.Canonical()]; ok {
			notes = append(notes, "installed "+v)
		} else {
			notes = append(notes, "not installed")
		}
	}
	if v, ok := latest[req.Canonical()]; ok {
		notes = append(notes, "latest "+v)
	}

	row := "  " + name + StyleHighlight.Render(constraint)
	if len(notes) > 0 {
		row += StyleDim.Render("  " + strings.Join(notes, " · "))
	}
	return row
}

// pipListEntry is one record of `pip list --format=json`.
type pipListEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// installedVersions asks the project venv's pip what is installed, keyed by
// normalized name. A missing venv or a failing pip is not an error here; the
// listing just loses its installed column.
func (c *CLI) installedVersions(ctx context.Context, dir string) map[string]string {
	venv := toolchain.ProjectVenv(dir)
	if !venv.Exists() {
		return nil
	}

	out, err := c.newExec().Run(ctx, dir, venv.Python(),
		"-m", "pip", "list", "--format=json", "--disable-pip-version-check")
	if err != nil {
		c.Logger.Debug("pip list failed", "err", err)
		return nil
	}

	// pip can print warnings around the JSON; cut to the array.
	start, end := strings.Index(out, "["), strings.LastIndex(out, "]")
	if start < 0 || end < start {
		return nil
	}
	var pkgs []pipListEntry
	if err := json.Unmarshal([]byte(out[start:end+1]), &pkgs); err != nil {
		c.Logger.Debug("pip list output not parseable", "err", err)
		return nil
	}

	versions := make(map[string]string, len(pkgs))
	for _, p := range pkgs {
		versions[deps.Normalize(p.Name)] = p.Version
	}
	return versions
}

// latestVersions looks up the newest release of every entry. Lookups that
// fail (unknown package, no network) leave a gap rather than aborting the
// listing.
func (c *CLI) latestVersions(ctx context.Context, entries []deps.Requirement) (map[string]string, error) {
	client, closeCache, err := c.newPyPIClient(ctx, false)
	if err != nil {
		return nil, err
	}
	defer closeCache()

	spin := newSpinnerWithContext(ctx, "Checking PyPI for the latest releases...")
	spin.Start()
	defer spin.Stop()

	versions := make(map[string]string, len(entries))
	for _, req := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := client.LatestVersion(ctx, req.Canonical(), false)
		if err != nil {
			c.Logger.Debug("latest release lookup failed", "package", req.Canonical(), "err", err)
			continue
		}
		versions[req.Canonical()] = v
	}
	return versions, nil
}

// depsAddCommand creates the "deps add" subcommand.
func (c *CLI) depsAddCommand(dir *string) *cobra.Command {
	var (
		noPin   bool
		upgrade bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "add <package>...",
		Short: "Add packages to requirements.txt, pinned to the latest release",
		Long: `Add writes one specifier per package to requirements.txt, creating the
file when it does not exist. A bare name is pinned to the latest release
on PyPI with an exact == constraint; a specifier with its own constraint
(e.g. "uvicorn[standard]>=0.20") is written as given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDepsAdd(cmd.Context(), *dir, args, noPin, upgrade, noCache)
		},
	}
	cmd.Flags().BoolVar(&noPin, "no-pin", false, "add bare names without a version constraint")
	cmd.Flags().BoolVar(&upgrade, "upgrade", false, "re-pin packages that are already listed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the metadata cache")

	return cmd
}

func (c *CLI) runDepsAdd(ctx context.Context, dir string, specs []string, noPin, upgrade, noCache bool) error {
	doc, path, err := loadRequirements(dir, true)
	if err != nil {
		return err
	}

	// Decide what actually gets written before touching the network, so the
	// spinner does not fight with per-package output.
	var pending []deps.Requirement
	for _, spec := range specs {
		req, err := deps.ParseRequirement(spec)
		if err != nil {
			return err
		}
		if existing, ok := doc.Find(req.Name); ok && !upgrade {
			printInfo("%s is already listed as %s", req.Name, existing.String())
			printDetail("re-pin it with --upgrade")
			continue
		}
		pending = append(pending, req)
	}
	if len(pending) == 0 {
		return nil
	}

	if !noPin {
		if err := c.pinLatest(ctx, pending, upgrade, noCache); err != nil {
			return err
		}
	}

	for _, req := range pending {
		if doc.Add(req) {
			printSuccess("Updated %s", req.String())
		} else {
			printSuccess("Added %s", req.String())
		}
	}
	if err := doc.WriteFile(path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
	}
	c.touchProject(dir)

	if venv := toolchain.ProjectVenv(dir); venv.Exists() {
		printNextStep("Install them", "python -m pip install -r requirements.txt")
	}
	return nil
}

// pinLatest fills in an exact "==" constraint for every requirement that has
// none, using the latest release on PyPI. refresh bypasses cached metadata so
// --upgrade re-pins against what PyPI serves right now.
func (c *CLI) pinLatest(ctx context.Context, reqs []deps.Requirement, refresh, noCache bool) error {
	needsPin := false
	for i := range reqs {
		if reqs[i].Constraint == "" {
			needsPin = true
			break
		}
	}
	if !needsPin {
		return nil
	}

	client, closeCache, err := c.newPyPIClient(ctx, noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	spin := newSpinnerWithContext(ctx, "Looking up the latest releases on PyPI...")
	spin.Start()
	for i := range reqs {
		if reqs[i].Constraint != "" {
			continue
		}
		version, err := client.LatestVersion(ctx, reqs[i].Canonical(), refresh)
		if err != nil {
			spin.StopWithError("Could not resolve " + reqs[i].Name)
			return err
		}
		reqs[i].Constraint = "==" + version
	}
	spin.Stop()
	return nil
}

// depsRemoveCommand creates the "deps remove" subcommand.
func (c *CLI) depsRemoveCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <package>...",
		Aliases: []string{"rm"},
		Short:   "Remove packages from requirements.txt",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDepsRemove(*dir, args)
		},
	}
}

func (c *CLI) runDepsRemove(dir string, names []string) error {
	doc, path, err := loadRequirements(dir, false)
	if err != nil {
		return err
	}

	var missing []string
	removed := 0
	for _, name := range names {
		if doc.Remove(name) {
			printSuccess("Removed %s", name)
			removed++
		} else {
			missing = append(missing, name)
		}
	}
	if removed > 0 {
		if err := doc.WriteFile(path); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", path)
		}
		c.touchProject(dir)
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeNotFound, "not listed in requirements.txt: %s", strings.Join(missing, ", "))
	}
	return nil
}

// depsGraphCommand creates the "deps graph" subcommand.
func (c *CLI) depsGraphCommand(dir *string) *cobra.Command {
	var (
		format  string
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the direct-dependency graph",
		Long: `Graph draws the project, its requirements, and one level of their own
runtime dependencies from PyPI metadata. It is a picture, not a resolver:
nothing is installed and version constraints are not solved. Packages
whose metadata cannot be fetched are drawn dashed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDepsGraph(cmd.Context(), *dir, format, output, refresh, noCache)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for dot, deps.<format> otherwise)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch metadata even when cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the metadata cache")

	return cmd
}

func (c *CLI) runDepsGraph(ctx context.Context, dir, formatFlag, output string, refresh, noCache bool) error {
	format, err := depgraph.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	// Dumping SVG or PNG bytes into a terminal helps nobody.
	if output == "" && format != depgraph.FormatDOT {
		output = filepath.Join(dir, "deps."+string(format))
	}

	doc, _, err := loadRequirements(dir, false)
	if err != nil {
		return err
	}
	snap, err := project.Detect(dir)
	if err != nil {
		return err
	}

	client, closeCache, err := c.newPyPIClient(ctx, noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	builder := depgraph.NewBuilder(client, c.Logger)
	builder.Refresh = refresh

	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(ctx, "Fetching dependency metadata...")
	spin.Start()
	g, err := builder.Build(ctx, snap.Name, doc)
	if err != nil {
		spin.StopWithError("Building the dependency graph failed")
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Fetched metadata for %d packages", len(g.Nodes())-1))

	data, err := depgraph.Render(ctx, g, format)
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Wrote %s graph to %s", format, output)
		printStats(len(g.Nodes())-1, len(g.Edges()))
	}
	return nil
}

// loadRequirements parses dir's requirements.txt and returns the document
// together with the file path. When the file does not exist, create selects
// between a fresh empty document and a FILE_NOT_FOUND error.
func loadRequirements(dir string, create bool) (*deps.Document, string, error) {
	path := filepath.Join(dir, "requirements.txt")
	doc, err := deps.ParseFile(path)
	switch {
	case err == nil:
		return doc, path, nil
	case os.IsNotExist(err) && create:
		return deps.NewDocument(), path, nil
	case os.IsNotExist(err):
		return nil, "", errors.New(errors.ErrCodeFileNotFound, "no requirements.txt in %s (start one with `pysetup deps add <package>`)", dir)
	default:
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "reading %s", path)
	}
}

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can be
// handled like a file.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
