package depgraph

import (
	"context"
	"strings"
	"testing"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/integrations/pypi"
)

func dotFixture(t *testing.T) *Graph {
	t.Helper()
	src := &stubSource{infos: map[string]*pypi.PackageInfo{
		"requests": {
			Name:         "requests",
			Version:      "2.32.5",
			Summary:      "Python HTTP for Humans.",
			HomePage:     "https://requests.readthedocs.io",
			Dependencies: []string{"idna"},
		},
	}}
	doc := testDoc(t, "requests==2.31.0\nmystery-pkg\n")
	g, err := testBuilder(src).Build(context.Background(), "hello-world", doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(dotFixture(t))

	if !strings.HasPrefix(dot, "digraph deps {\n") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("DOT not wrapped in digraph block:\n%s", dot)
	}

	wantLines := []string{
		`rankdir=TB;`,
		// Project node: bold with accent fill.
		`"hello-world" [label="hello-world", style="rounded,filled,bold", fillcolor="#e8f0fe"];`,
		// Fetched package: versioned label, link, tooltip.
		`"requests" [label="requests\n2.31.0", URL="https://requests.readthedocs.io", tooltip="Python HTTP for Humans."];`,
		// Unfetchable package: dashed, still present.
		`"mystery-pkg" [label="mystery-pkg", style="rounded,filled,dashed", fillcolor=lightgrey, fontcolor=grey25];`,
		`"hello-world" -> "requests";`,
		`"requests" -> "idna";`,
	}
	for _, want := range wantLines {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	g := dotFixture(t)
	if a, b := ToDOT(g), ToDOT(g); a != b {
		t.Error("ToDOT output differs between calls on the same graph")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatDOT, false},
		{"dot", FormatDOT, false},
		{"SVG", FormatSVG, false},
		{" png ", FormatPNG, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ParseFormat(%q) err = %v, want INVALID_INPUT", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestRender_DOT(t *testing.T) {
	g := dotFixture(t)
	out, err := Render(context.Background(), g, FormatDOT)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != ToDOT(g) {
		t.Error("Render(FormatDOT) differs from ToDOT")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), dotFixture(t), Format("gif"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}
