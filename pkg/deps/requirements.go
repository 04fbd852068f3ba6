package deps

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/integrations"
)

var depNameRE = regexp.MustCompile(`^([a-zA-Z0-9][-a-zA-Z0-9._]*)`)

// Normalize converts a distribution name to its PEP 503 canonical form.
func Normalize(name string) string {
	return integrations.NormalizePkgName(name)
}

// Requirement is one requirement specifier.
type Requirement struct {
	Name       string   // distribution name as written (e.g. "Requests")
	Extras     []string // optional extras (e.g. ["security", "socks"])
	Constraint string   // version constraint (e.g. "==2.31.0", ">=2,<3"); empty means any
	Marker     string   // environment marker, the part after ';'
	Comment    string   // trailing comment, without the leading '#'
}

// Canonical returns the PEP 503 normalized name.
func (r Requirement) Canonical() string {
	return Normalize(r.Name)
}

// String renders the requirement in canonical PEP 508 form:
//
//	name[extra1,extra2]==1.2.3 ; python_version >= "3.8"  # comment
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteString("]")
	}
	b.WriteString(r.Constraint)
	if r.Marker != "" {
		b.WriteString(" ; ")
		b.WriteString(r.Marker)
	}
	if r.Comment != "" {
		b.WriteString("  # ")
		b.WriteString(r.Comment)
	}
	return b.String()
}

// line is one physical line of the file. req is nil for comments, blank
// lines, pip options and URL requirements, which are kept verbatim.
type line struct {
	raw string
	req *Requirement
}

// Document is an ordered requirements.txt file.
type Document struct {
	lines []line
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Parse reads a requirements file. Lines it cannot model (options, URLs,
// malformed specifiers) are preserved as raw text rather than dropped.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		doc.lines = append(doc.lines, classify(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// classify decides whether a physical line is a requirement entry.
func classify(text string) line {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		return line{raw: text}
	case strings.HasPrefix(trimmed, "-"):
		// pip options: -r includes, -e editables, -c constraints, --hash...
		return line{raw: text}
	case strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "git+"):
		// URL requirements are kept verbatim; they have no registry name
		// to pin or look up.
		return line{raw: text}
	}

	body, comment := splitComment(trimmed)
	req, ok := parseSpecifier(body)
	if !ok {
		return line{raw: text}
	}
	req.Comment = comment
	return line{raw: text, req: req}
}

// splitComment separates an inline comment from the specifier. Following
// pip, '#' only starts a comment when preceded by whitespace.
func splitComment(s string) (body, comment string) {
	for i := 1; i < len(s); i++ {
		if s[i] == '#' && (s[i-1] == ' ' || s[i-1] == '\t') {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		}
	}
	return strings.TrimSpace(s), ""
}

// parseSpecifier parses "name[extras]constraint ; marker".
func parseSpecifier(s string) (*Requirement, bool) {
	m := depNameRE.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	req := &Requirement{Name: m[1]}
	rest := s[len(m[1]):]

	if i := strings.Index(rest, ";"); i >= 0 {
		req.Marker = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return nil, false
		}
		for _, e := range strings.Split(rest[1:end], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, e)
			}
		}
		rest = rest[end+1:]
	}

	req.Constraint = canonicalConstraint(rest)
	return req, true
}

// ParseRequirement parses a single PEP 508-style specifier like
// "requests", "uvicorn[standard]>=0.20", or "tomli ; python_version < '3.11'".
// Raw lines (URLs, -r includes, options) are not specifiers and are rejected.
func ParseRequirement(s string) (Requirement, error) {
	body, comment := splitComment(strings.TrimSpace(s))
	req, ok := parseSpecifier(body)
	if !ok {
		return Requirement{}, errors.New(errors.ErrCodeInvalidRequirement, "cannot parse requirement %q", s)
	}
	req.Comment = comment
	return *req, nil
}

// canonicalConstraint strips the optional parentheses PyPI metadata uses
// and removes interior whitespace: ">= 2.8.1, < 3" becomes ">=2.8.1,<3".
func canonicalConstraint(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "\t", "")
}

// Entries returns the parsed requirements in file order.
func (d *Document) Entries() []Requirement {
	var out []Requirement
	for _, l := range d.lines {
		if l.req != nil {
			out = append(out, *l.req)
		}
	}
	return out
}

// Len reports the number of requirement entries (not physical lines).
func (d *Document) Len() int {
	n := 0
	for _, l := range d.lines {
		if l.req != nil {
			n++
		}
	}
	return n
}

// Find returns the entry whose normalized name matches name.
func (d *Document) Find(name string) (Requirement, bool) {
	want := Normalize(name)
	for _, l := range d.lines {
		if l.req != nil && l.req.Canonical() == want {
			return *l.req, true
		}
	}
	return Requirement{}, false
}

// Add inserts req, replacing an existing entry with the same normalized
// name in place (the rest of the file is untouched) or appending a new
// line at the end. It reports whether an existing entry was replaced.
func (d *Document) Add(req Requirement) bool {
	want := req.Canonical()
	for i, l := range d.lines {
		if l.req != nil && l.req.Canonical() == want {
			r := req
			d.lines[i] = line{raw: r.String(), req: &r}
			return true
		}
	}
	r := req
	d.lines = append(d.lines, line{raw: r.String(), req: &r})
	return false
}

// Remove deletes the entry with the given normalized name and reports
// whether anything was removed.
func (d *Document) Remove(name string) bool {
	want := Normalize(name)
	for i, l := range d.lines {
		if l.req != nil && l.req.Canonical() == want {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Write renders the document. Untouched lines are written exactly as they
// were read; every line ends with a newline.
func (d *Document) Write(w io.Writer) error {
	for _, l := range d.lines {
		if _, err := io.WriteString(w, l.raw+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the document to path.
func (d *Document) WriteFile(path string) error {
	var b strings.Builder
	if err := d.Write(&b); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// String renders the document to a string.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Write(&b)
	return b.String()
}
