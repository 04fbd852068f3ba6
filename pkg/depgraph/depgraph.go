// Package depgraph builds a visual picture of a project's direct
// dependencies.
//
// The graph is deliberately shallow: the project sits at the root, the
// entries of requirements.txt one level below, and each entry's direct
// runtime dependencies (from PyPI metadata) one level below that. Two levels
// cannot form a cycle and the picture stays readable. This is a display aid,
// not a resolver — pip remains responsible for solving and installing.
//
// # Building and rendering
//
//	g, err := depgraph.NewBuilder(client, logger).Build(ctx, "hello-world", doc)
//	svg, err := depgraph.Render(ctx, g, depgraph.FormatSVG)
//
// Packages whose metadata cannot be fetched (offline, private index, typo)
// stay in the graph as unknown nodes and render with dashed outlines instead
// of failing the whole command.
package depgraph

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/deps"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/integrations/pypi"
)

// Node is a single package in the dependency picture.
type Node struct {
	Name    string `json:"name"`              // PEP 503 normalized name, unique within the graph
	Label   string `json:"label"`             // name as the user wrote it (or the project name)
	Version string `json:"version,omitempty"` // pinned or latest-known version
	Summary string `json:"summary,omitempty"` // one-line description from PyPI
	URL     string `json:"url,omitempty"`     // project homepage
	Root    bool   `json:"root,omitempty"`    // true for the project node
	Known   bool   `json:"known"`             // false when metadata could not be fetched
}

// Edge points from a dependent package to one of its direct dependencies.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the assembled two-level dependency picture.
type Graph struct {
	root  string
	nodes map[string]*Node
	edges map[Edge]struct{}
}

func newGraph(root *Node) *Graph {
	return &Graph{
		root:  root.Name,
		nodes: map[string]*Node{root.Name: root},
		edges: make(map[Edge]struct{}),
	}
}

// Root returns the project node.
func (g *Graph) Root() *Node {
	return g.nodes[g.root]
}

// Node looks up a package; the name is normalized before the lookup.
// It returns nil when the package is not in the graph.
func (g *Graph) Node(name string) *Node {
	return g.nodes[deps.Normalize(name)]
}

// Nodes returns every node, project first, dependencies sorted by name.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	out = append(out, g.nodes[g.root])
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if name == g.root {
			continue
		}
		out = append(out, g.nodes[name])
	}
	return out
}

// Edges returns every edge sorted by source, then target.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Edge) int {
		if a.From != b.From {
			return strings.Compare(a.From, b.From)
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}

// ensure returns the node for a normalized name, creating it on first sight.
// Dependencies reported by PyPI metadata start out Known; a failed fetch for
// a first-level requirement flips its node back to unknown.
func (g *Graph) ensure(name, label string) *Node {
	if n, ok := g.nodes[name]; ok {
		return n
	}
	n := &Node{Name: name, Label: label, Known: true}
	g.nodes[name] = n
	return n
}

func (g *Graph) addEdge(from, to string) {
	if from == to {
		return
	}
	g.edges[Edge{From: from, To: to}] = struct{}{}
}

// Source provides package metadata. *pypi.Client satisfies it.
type Source interface {
	FetchPackage(ctx context.Context, pkg string, refresh bool) (*pypi.PackageInfo, error)
}

// Builder assembles dependency graphs from requirements documents.
type Builder struct {
	Source Source
	Logger *log.Logger

	// Refresh bypasses the metadata cache.
	Refresh bool
}

// NewBuilder creates a builder that looks up metadata through src.
func NewBuilder(src Source, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{Source: src, Logger: logger}
}

// Build assembles the graph for a parsed requirements document. Metadata
// lookups that fail leave the package in the graph as an unknown node; Build
// itself only fails on invalid input or a cancelled context.
func (b *Builder) Build(ctx context.Context, projectName string, doc *deps.Document) (*Graph, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no requirements document to graph")
	}
	if projectName == "" {
		projectName = "project"
	}

	g := newGraph(&Node{
		Name:  deps.Normalize(projectName),
		Label: projectName,
		Root:  true,
		Known: true,
	})

	for _, req := range doc.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.addRequirement(ctx, g, req)
	}
	return g, nil
}

// addRequirement adds one first-level entry and its direct dependencies.
func (b *Builder) addRequirement(ctx context.Context, g *Graph, req deps.Requirement) {
	name := req.Canonical()
	node := g.ensure(name, req.Name)
	if v := pinnedVersion(req.Constraint); v != "" {
		node.Version = v
	}
	g.addEdge(g.root, name)

	info, err := b.Source.FetchPackage(ctx, name, b.Refresh)
	if err != nil {
		node.Known = false
		b.Logger.Debug("package metadata unavailable", "package", name, "err", err)
		return
	}

	node.Known = true
	node.Summary = info.Summary
	node.URL = projectURL(info)
	if node.Version == "" {
		node.Version = info.Version
	}

	for _, dep := range info.Dependencies {
		g.ensure(dep, dep)
		g.addEdge(name, dep)
	}
}

// pinnedVersion extracts the version from an exact "==" constraint. Ranges,
// wildcards, and compound constraints have no single version to show.
func pinnedVersion(constraint string) string {
	rest, ok := strings.CutPrefix(strings.TrimSpace(constraint), "==")
	if !ok || strings.ContainsAny(rest, ",*") {
		return ""
	}
	return strings.TrimSpace(rest)
}

// projectURL picks the most useful link out of the package metadata.
func projectURL(info *pypi.PackageInfo) string {
	if info.HomePage != "" {
		return info.HomePage
	}
	for _, key := range []string{"Homepage", "Repository", "Source", "Documentation"} {
		if u := info.ProjectURLs[key]; u != "" {
			return u
		}
	}
	return ""
}
