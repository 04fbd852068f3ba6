// Package guide holds the built-in Python project setup tutorial.
//
// The tutorial is a fixed, ordered list of steps compiled into the binary.
// Step numbers are stable identifiers: doctor hints and command help refer
// to steps by number and slug, so reordering or renumbering existing steps
// is a breaking change. New steps go at the end.
//
// Rendering is left to the callers: the CLI prints steps with terminal
// styling, the local server renders them as HTML.
package guide

// Step is one stage of the tutorial.
type Step struct {
	// Number is the stable 1-based position of the step.
	Number int `json:"number"`

	// Slug identifies the step in URLs and command arguments.
	Slug string `json:"slug"`

	// Title is the step heading.
	Title string `json:"title"`

	// Summary is a one-line description shown in listings.
	Summary string `json:"summary"`

	// Body holds the tutorial prose, one paragraph per entry.
	Body []string `json:"body"`

	// Commands are the shell commands the step teaches, in order.
	Commands []string `json:"commands,omitempty"`

	// Files lists the files the step produces or edits.
	Files []string `json:"files,omitempty"`

	// Related names the pysetup command that automates the step, if any.
	Related string `json:"related,omitempty"`
}

// Steps returns every tutorial step in order. The result is a copy; callers
// may reorder or filter it freely.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// Count returns the number of tutorial steps.
func Count() int {
	return len(steps)
}

// ByNumber returns the step with the given 1-based number.
func ByNumber(n int) (Step, bool) {
	if n < 1 || n > len(steps) {
		return Step{}, false
	}
	return steps[n-1], true
}

// BySlug returns the step with the given slug.
func BySlug(slug string) (Step, bool) {
	for _, s := range steps {
		if s.Slug == slug {
			return s, true
		}
	}
	return Step{}, false
}

// Ref formats a human-readable reference to a step, used by doctor hints.
// Returns an empty string for unknown slugs.
func Ref(slug string) string {
	s, ok := BySlug(slug)
	if !ok {
		return ""
	}
	return "see `pysetup guide " + s.Slug + "`"
}
