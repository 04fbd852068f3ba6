// Package pkg provides the core libraries behind the pysetup CLI.
//
// # Overview
//
// pysetup automates the Python project setup ritual: create a virtual
// environment, record dependencies in requirements.txt, wire up formatting
// and linting, keep secrets in .env and out of git. The packages here
// implement that in three areas:
//
//  1. Project state — what a project looks like on disk
//  2. Execution — running python, pip, and git safely
//  3. Metadata — talking to PyPI and caching what it says
//
// # Project state
//
// [scaffold] turns a project name, layout, and tool selection into a Plan:
// the full set of files a new project needs (pyproject.toml, requirements
// files, tests, .gitignore). Plans are pure data; nothing touches disk until
// a plan is applied.
//
// [deps] models requirements.txt as an editable document. Untouched lines
// round-trip byte-for-byte, so adding or removing one package produces a
// one-line diff.
//
// [envfile] compares .env against .env.example by key, never reading values
// into output.
//
// [project] detects whether a directory is a Python project and keeps the
// registry of projects pysetup has touched.
//
// # Execution
//
// [toolchain] discovers interpreters, creates virtual environments, and runs
// external commands with context cancellation and captured output.
//
// [setup] runs an ordered list of setup steps (venv, pip install, git init)
// with per-step skip and failure reporting.
//
// [doctor] checks the machine (python version, pip, git) and a project
// (venv, requirements, env files) and reports pass/warn/fail per check.
//
// # Metadata
//
// [integrations] and [integrations/pypi] fetch package metadata from the
// PyPI JSON API with retries and read-through caching.
//
// [cache] provides the cache backends: files under the user cache dir for
// normal use, Redis for shared CI runners, and a null cache for tests.
//
// [depgraph] builds a project's dependency graph from PyPI metadata and
// renders it as DOT, SVG, or PNG.
//
// [guide] holds the built-in tutorial explaining every step the tool
// automates.
//
// # Supporting packages
//
// [errors] (coded errors with user-facing messages), [httputil] (retry with
// exponential backoff), [buildinfo] (version stamping via ldflags), and
// [observability] (instrumentation hooks with no-op defaults).
//
// # Quick start
//
// Scaffold a plan and run the setup steps:
//
//	plan, _ := scaffold.NewPlan(scaffold.Options{
//	    Name:   "demo-app",
//	    Layout: scaffold.LayoutSrc,
//	    Tools:  scaffold.DefaultTools,
//	})
//	runner := setup.NewRunner(toolchain.NewRunner(logger), logger)
//	summary, _ := runner.Run(ctx, plan)
//
// Edit requirements.txt and pin from PyPI:
//
//	doc, _ := deps.ParseFile("requirements.txt")
//	client := pypi.NewClient(backend, 24*time.Hour)
//	version, _ := client.LatestVersion(ctx, "requests", false)
//	doc.Add(deps.Requirement{Name: "requests", Constraint: "==" + version})
//	_ = doc.WriteFile("requirements.txt")
//
// [scaffold]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/scaffold
// [deps]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/deps
// [envfile]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/envfile
// [project]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/project
// [toolchain]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/toolchain
// [setup]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/setup
// [doctor]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/doctor
// [integrations]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/integrations
// [integrations/pypi]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/integrations/pypi
// [cache]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/cache
// [depgraph]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/depgraph
// [guide]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/guide
// [errors]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/buildinfo
// [observability]: https://pkg.go.dev/github.com/larrypadri/pysetup/pkg/observability
package pkg
