// Package server implements the local guide and project status server.
//
// The server is read-only: it renders the embedded tutorial as HTML and
// exposes the current project state (doctor report, parsed requirements) as
// JSON for dashboards and editors. A background refresher re-scans the
// project on a cron schedule so the data stays current while the server
// runs; handlers only ever read the last completed scan.
//
// # Routes
//
//	GET /                  guide index with project status
//	GET /guide/{slug}      one tutorial step
//	GET /api/guide         tutorial steps as JSON
//	GET /api/status        latest project scan (doctor report) as JSON
//	GET /api/requirements  parsed requirements.txt as JSON
//	GET /healthz           liveness probe
package server

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/larrypadri/pysetup/pkg/deps"
	"github.com/larrypadri/pysetup/pkg/doctor"
	"github.com/larrypadri/pysetup/pkg/errors"
	"github.com/larrypadri/pysetup/pkg/project"
	"github.com/larrypadri/pysetup/pkg/toolchain"
)

// DefaultRefreshSpec is how often the project is re-scanned while serving.
const DefaultRefreshSpec = "@every 30s"

// shutdownTimeout bounds how long in-flight requests may run after the
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Addr is the listen address.
	Addr string

	// ProjectDir is the project to scan and report on.
	ProjectDir string

	// Exec runs the external probes (python, git) during scans.
	Exec toolchain.Runner

	// Python optionally pins the interpreter the scan checks against.
	Python string

	// RefreshSpec is the cron schedule for background re-scans
	// (DefaultRefreshSpec when empty).
	RefreshSpec string

	Logger *log.Logger
}

// Server serves the guide and project status.
type Server struct {
	opts   Options
	logger *log.Logger

	mu   sync.RWMutex
	scan Scan
}

// New creates a Server. The first scan happens when Run starts.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.RefreshSpec == "" {
		opts.RefreshSpec = DefaultRefreshSpec
	}
	if opts.Exec == nil {
		opts.Exec = toolchain.NewRunner(opts.Logger)
	}
	return &Server{opts: opts, logger: opts.Logger}
}

// Scan is one pass over the project directory: everything the dashboard
// shows, frozen at GeneratedAt.
type Scan struct {
	GeneratedAt  time.Time         `json:"generated_at"`
	Project      *project.Snapshot `json:"project,omitempty"`
	Report       *doctor.Report    `json:"report,omitempty"`
	Requirements []requirementJSON `json:"requirements,omitempty"`

	// Err is set when the directory could not be inspected at all.
	Err string `json:"error,omitempty"`
}

// Latest returns the most recent completed scan.
func (s *Server) Latest() Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scan
}

// Refresh scans the project once and publishes the result to handlers.
func (s *Server) Refresh(ctx context.Context) {
	scan := s.scanProject(ctx)

	s.mu.Lock()
	s.scan = scan
	s.mu.Unlock()

	if scan.Report != nil {
		s.logger.Debug("project scan complete",
			"passed", scan.Report.Passed,
			"warned", scan.Report.Warned,
			"failed", scan.Report.Failed)
	}
}

func (s *Server) scanProject(ctx context.Context) Scan {
	scan := Scan{GeneratedAt: time.Now().UTC()}

	snap, err := project.Detect(s.opts.ProjectDir)
	if err != nil {
		scan.Err = errors.UserMessage(err)
		return scan
	}
	scan.Project = snap

	env := &doctor.Env{Exec: s.opts.Exec, Explicit: s.opts.Python}
	checks := append(doctor.ToolchainChecks(env), doctor.ProjectChecks(env, snap)...)
	scan.Report = doctor.Run(ctx, checks)

	if snap.HasRequirements {
		doc, err := deps.ParseFile(filepath.Join(snap.Path, "requirements.txt"))
		if err != nil {
			s.logger.Warn("requirements unreadable", "err", err)
		} else {
			scan.Requirements = requirementsJSON(doc)
		}
	}
	return scan
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// project is scanned once before the listener opens so the first request
// never sees an empty dashboard.
func (s *Server) Run(ctx context.Context) error {
	s.Refresh(ctx)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(s.opts.RefreshSpec, func() { s.Refresh(ctx) }); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid refresh schedule %q", s.opts.RefreshSpec)
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", s.opts.Addr, "project", s.opts.ProjectDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}
