package guide

import (
	"strings"
	"testing"
)

// Step numbers are stable identifiers used by doctor hints and URLs, so the
// content must stay contiguous and in order.
func TestSteps_StableNumbering(t *testing.T) {
	all := Steps()
	if len(all) == 0 {
		t.Fatal("guide has no steps")
	}
	seen := map[string]bool{}
	for i, s := range all {
		if s.Number != i+1 {
			t.Errorf("step %q number = %d, want %d", s.Slug, s.Number, i+1)
		}
		if s.Slug == "" || s.Title == "" || s.Summary == "" {
			t.Errorf("step %d missing slug/title/summary: %+v", i+1, s)
		}
		if len(s.Body) == 0 {
			t.Errorf("step %q has no body", s.Slug)
		}
		if seen[s.Slug] {
			t.Errorf("duplicate slug %q", s.Slug)
		}
		seen[s.Slug] = true
		if s.Slug != strings.ToLower(s.Slug) || strings.ContainsAny(s.Slug, " _") {
			t.Errorf("slug %q is not kebab-case", s.Slug)
		}
	}
}

func TestSteps_ReturnsCopy(t *testing.T) {
	first := Steps()
	first[0].Title = "mutated"
	if got := Steps()[0].Title; got == "mutated" {
		t.Error("Steps() exposes internal state")
	}
}

func TestByNumber(t *testing.T) {
	if _, ok := ByNumber(0); ok {
		t.Error("ByNumber(0) should not resolve")
	}
	if _, ok := ByNumber(Count() + 1); ok {
		t.Error("ByNumber past the end should not resolve")
	}
	s, ok := ByNumber(3)
	if !ok || s.Slug != "virtual-environment" {
		t.Errorf("ByNumber(3) = %+v, %v; want the venv step", s, ok)
	}
}

func TestBySlug(t *testing.T) {
	s, ok := BySlug("dependencies")
	if !ok || s.Number != 4 {
		t.Errorf("BySlug(dependencies) = %+v, %v", s, ok)
	}
	if _, ok := BySlug("nonsense"); ok {
		t.Error("BySlug(nonsense) should not resolve")
	}
}

func TestRef(t *testing.T) {
	if got := Ref("testing"); !strings.Contains(got, "pysetup guide testing") {
		t.Errorf("Ref(testing) = %q", got)
	}
	if got := Ref("nonsense"); got != "" {
		t.Errorf("Ref(nonsense) = %q, want empty", got)
	}
}

// The tutorial teaches through specific commands; spot-check the ones other
// parts of the tool rely on.
func TestSteps_Content(t *testing.T) {
	venv, _ := BySlug("virtual-environment")
	if !containsCommand(venv.Commands, "python3 -m venv venv") {
		t.Errorf("venv step commands = %v", venv.Commands)
	}

	deps, _ := BySlug("dependencies")
	if !containsCommand(deps.Commands, "python -m pip install -r requirements.txt") {
		t.Errorf("dependencies step commands = %v", deps.Commands)
	}

	layout, _ := BySlug("project-layout")
	joined := strings.Join(layout.Body, "\n")
	if !strings.Contains(joined, "def greet():") {
		t.Error("project-layout step should show the greet function")
	}

	env, _ := BySlug("environment-variables")
	if !strings.Contains(strings.Join(env.Body, "\n"), "load_dotenv") {
		t.Error("environment-variables step should show load_dotenv")
	}
}

func containsCommand(commands []string, want string) bool {
	for _, c := range commands {
		if c == want {
			return true
		}
	}
	return false
}
