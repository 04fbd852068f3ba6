package depgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// Format selects the output encoding for [Render].
type Format string

// Supported graph output formats.
const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps a user-supplied format name to a Format. An empty string
// defaults to DOT.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dot":
		return FormatDOT, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown graph format %q (want dot, svg, or png)", s)
	}
}

// ToDOT converts a graph to Graphviz DOT format.
//
// The project node is drawn bold with an accent fill, fetched packages as
// rounded boxes, and packages whose metadata could not be fetched with
// dashed grey outlines. Node URLs become clickable links in SVG output.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=grey40, arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n))}
	switch {
	case n.Root:
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "fillcolor=\"#e8f0fe\"")
	case !n.Known:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey25")
	}
	if n.URL != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", n.URL))
	}
	if n.Summary != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Summary))
	}
	return attrs
}

func nodeLabel(n *Node) string {
	label := n.Label
	if label == "" {
		label = n.Name
	}
	if n.Version != "" {
		label += "\n" + n.Version
	}
	return label
}

// Render encodes the graph in the requested format. DOT needs no external
// tooling; SVG and PNG go through the embedded Graphviz engine.
func Render(ctx context.Context, g *Graph, format Format) ([]byte, error) {
	dot := ToDOT(g)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return renderGraphviz(ctx, dot, graphviz.SVG)
	case FormatPNG:
		return renderGraphviz(ctx, dot, graphviz.PNG)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown graph format %q", format)
	}
}

func renderGraphviz(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
