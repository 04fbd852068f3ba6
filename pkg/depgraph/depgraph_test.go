package depgraph

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/larrypadri/pysetup/pkg/deps"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/integrations/pypi"
)

// stubSource serves canned metadata keyed by normalized package name.
type stubSource struct {
	infos map[string]*pypi.PackageInfo
	calls []string
}

func (s *stubSource) FetchPackage(_ context.Context, pkg string, _ bool) (*pypi.PackageInfo, error) {
	s.calls = append(s.calls, pkg)
	info, ok := s.infos[pkg]
	if !ok {
		return nil, fmt.Errorf("pypi package %s not found", pkg)
	}
	return info, nil
}

func testBuilder(src Source) *Builder {
	return NewBuilder(src, log.NewWithOptions(io.Discard, log.Options{}))
}

func testDoc(t *testing.T, text string) *deps.Document {
	t.Helper()
	doc, err := deps.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestBuild_TwoLevels(t *testing.T) {
	src := &stubSource{infos: map[string]*pypi.PackageInfo{
		"requests": {
			Name:         "requests",
			Version:      "2.32.5",
			Summary:      "Python HTTP for Humans.",
			HomePage:     "https://requests.readthedocs.io",
			Dependencies: []string{"charset-normalizer", "idna", "urllib3", "certifi"},
		},
		"click": {
			Name:         "click",
			Version:      "8.1.7",
			Dependencies: []string{"colorama"},
		},
	}}

	doc := testDoc(t, "# pinned by pysetup\nrequests==2.31.0\nclick>=8.0\n")
	g, err := testBuilder(src).Build(context.Background(), "hello-world", doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	root := g.Root()
	if root == nil || !root.Root || root.Name != "hello-world" {
		t.Fatalf("root = %+v, want project node hello-world", root)
	}

	// 1 project + 2 requirements + 5 distinct second-level deps.
	if got := len(g.Nodes()); got != 8 {
		t.Fatalf("len(Nodes()) = %d, want 8", got)
	}
	if g.Nodes()[0] != root {
		t.Errorf("Nodes()[0] = %+v, want the project node first", g.Nodes()[0])
	}

	req := g.Node("requests")
	if req == nil || !req.Known {
		t.Fatalf("requests node = %+v, want known node", req)
	}
	if req.Version != "2.31.0" {
		t.Errorf("requests version = %q, want pinned 2.31.0 over latest", req.Version)
	}
	if req.URL != "https://requests.readthedocs.io" {
		t.Errorf("requests URL = %q", req.URL)
	}
	if req.Summary != "Python HTTP for Humans." {
		t.Errorf("requests summary = %q", req.Summary)
	}

	if click := g.Node("click"); click.Version != "8.1.7" {
		t.Errorf("click version = %q, want latest to fill the unpinned entry", click.Version)
	}
	if leaf := g.Node("idna"); leaf == nil || !leaf.Known || leaf.Version != "" {
		t.Errorf("idna leaf = %+v, want known node without version", leaf)
	}

	wantEdges := []Edge{
		{From: "click", To: "colorama"},
		{From: "hello-world", To: "click"},
		{From: "hello-world", To: "requests"},
		{From: "requests", To: "certifi"},
		{From: "requests", To: "charset-normalizer"},
		{From: "requests", To: "idna"},
		{From: "requests", To: "urllib3"},
	}
	if got := g.Edges(); !slices.Equal(got, wantEdges) {
		t.Errorf("Edges() = %v, want %v", got, wantEdges)
	}
}

func TestBuild_MergesDuplicateNames(t *testing.T) {
	src := &stubSource{infos: map[string]*pypi.PackageInfo{
		"requests": {Name: "requests", Version: "2.32.5", Dependencies: []string{"idna"}},
		"idna":     {Name: "idna", Version: "3.7"},
	}}

	// IDNA is both a direct requirement and a dependency of requests; the
	// normalized name must map to a single node.
	doc := testDoc(t, "requests\nIDNA==3.6\n")
	g, err := testBuilder(src).Build(context.Background(), "demo", doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := len(g.Nodes()); got != 3 {
		t.Fatalf("len(Nodes()) = %d, want 3 (project, requests, idna)", got)
	}
	idna := g.Node("IDNA")
	if idna == nil || !idna.Known {
		t.Fatalf("idna node = %+v", idna)
	}
	if idna.Version != "3.6" {
		t.Errorf("idna version = %q, want the pinned 3.6", idna.Version)
	}

	wantEdges := []Edge{
		{From: "demo", To: "idna"},
		{From: "demo", To: "requests"},
		{From: "requests", To: "idna"},
	}
	if got := g.Edges(); !slices.Equal(got, wantEdges) {
		t.Errorf("Edges() = %v, want %v", got, wantEdges)
	}
	if !slices.Contains(src.calls, "idna") {
		t.Errorf("calls = %v, want metadata fetched for the direct idna entry", src.calls)
	}
}

func TestBuild_UnfetchableStaysInGraph(t *testing.T) {
	src := &stubSource{infos: map[string]*pypi.PackageInfo{
		"requests": {Name: "requests", Version: "2.32.5"},
	}}

	doc := testDoc(t, "internal-tool==0.1\nrequests==2.31.0\n")
	g, err := testBuilder(src).Build(context.Background(), "demo", doc)
	if err != nil {
		t.Fatalf("Build: %v, want lookup failures to degrade, not abort", err)
	}

	n := g.Node("internal-tool")
	if n == nil {
		t.Fatal("internal-tool missing from graph")
	}
	if n.Known {
		t.Error("internal-tool marked known despite failed metadata fetch")
	}
	if n.Version != "0.1" {
		t.Errorf("internal-tool version = %q, want the pin kept", n.Version)
	}
	if req := g.Node("requests"); !req.Known {
		t.Errorf("requests node = %+v, want known", req)
	}
}

func TestBuild_NilDocument(t *testing.T) {
	_, err := testBuilder(&stubSource{}).Build(context.Background(), "demo", nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestBuild_DefaultProjectName(t *testing.T) {
	g, err := testBuilder(&stubSource{}).Build(context.Background(), "", testDoc(t, ""))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.Root().Name != "project" {
		t.Errorf("root name = %q, want project", g.Root().Name)
	}
}

func TestBuild_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testBuilder(&stubSource{}).Build(ctx, "demo", testDoc(t, "requests\n"))
	if err == nil {
		t.Fatal("Build succeeded with cancelled context")
	}
}

func TestPinnedVersion(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"==2.31.0", "2.31.0"},
		{"== 1.0.0", "1.0.0"},
		{"==2.*", ""},
		{"==1.0,<2", ""},
		{">=2.0", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := pinnedVersion(tt.constraint); got != tt.want {
			t.Errorf("pinnedVersion(%q) = %q, want %q", tt.constraint, got, tt.want)
		}
	}
}
