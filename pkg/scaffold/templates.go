package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templates holds every embedded template, parsed once at startup. The set
// is fixed at compile time, so a parse failure is a programming error.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// templateData is the rendering context shared by all project templates.
type templateData struct {
	Name          string // project name as given
	Package       string // Python package name derived from Name
	Author        string // author for pyproject.toml, may be empty
	AuthorEmail   string // author email for pyproject.toml, may be empty
	Holder        string // copyright holder for the LICENSE file
	Year          int    // copyright year
	PythonVersion string // minimum interpreter version, "3.11" form
	IsSrc         bool
	HasBlack      bool
	HasFlake8     bool
	HasDotenv     bool
	TestImport    string // module the unit test imports greet from
	RunCommand    string // command the README shows for running the program
}

func newTemplateData(opts Options, layout Layout, tools map[string]bool, year int) templateData {
	pkg := PackageName(opts.Name)

	d := templateData{
		Name:          opts.Name,
		Package:       pkg,
		Author:        opts.Author,
		AuthorEmail:   opts.AuthorEmail,
		Holder:        opts.Author,
		Year:          year,
		PythonVersion: opts.PythonVersion,
		IsSrc:         layout == LayoutSrc,
		HasBlack:      tools[ToolBlack],
		HasFlake8:     tools[ToolFlake8],
		HasDotenv:     tools[ToolDotenv],
		TestImport:    "main",
		RunCommand:    "python main.py",
	}
	if d.Holder == "" {
		d.Holder = fmt.Sprintf("The %s authors", opts.Name)
	}
	if d.PythonVersion == "" {
		d.PythonVersion = toolchain.MinVersion.MajorMinor()
	}
	if d.IsSrc {
		d.TestImport = pkg + ".main"
		d.RunCommand = fmt.Sprintf("python -m %s.main", pkg)
	}
	return d
}

// render executes the named embedded template with data.
func render(name string, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering template %s", name)
	}
	return buf.Bytes(), nil
}

// EnvExample returns the stock .env.example content, for creating the file
// outside a full scaffold run. The template takes no data.
func EnvExample() []byte {
	content, err := render("env.example.tmpl", templateData{})
	if err != nil {
		panic(err) // static template, cannot fail after init
	}
	return content
}
