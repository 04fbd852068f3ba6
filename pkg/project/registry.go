// Package project tracks the Python projects pysetup has created or
// inspected.
//
// The registry is a single JSON file, by default
// ~/.config/pysetup/projects.json, written atomically (temp file + rename)
// and guarded by an RWMutex. That is enough for a single-process CLI; two
// concurrent pysetup invocations may race each other, last writer wins.
//
// [Detect] is the read-only counterpart: it inspects a directory on disk
// and reports which of the conventional project files exist, without
// touching the registry.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/larrypadri/pysetup/pkg/errors"
)

// Project is one registry record.
type Project struct {
	ID        string    `json:"id"`               // stable identifier, assigned on first record
	Name      string    `json:"name"`             // project name
	Path      string    `json:"path"`             // absolute project directory
	Layout    string    `json:"layout,omitempty"` // flat or src
	Python    string    `json:"python,omitempty"` // interpreter version used at creation
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// registryFile is the on-disk envelope, versioned by shape.
type registryFile struct {
	Projects []Project `json:"projects"`
}

// Registry persists known projects as JSON.
type Registry struct {
	mu   sync.RWMutex
	path string
}

// NewRegistry opens (or prepares) a registry at path. An empty path uses
// ~/.config/pysetup/projects.json. The file itself is created lazily on the
// first write.
func NewRegistry(path string) (*Registry, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolving home directory")
		}
		path = filepath.Join(home, ".config", "pysetup", "projects.json")
	}
	return &Registry{path: path}, nil
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// List returns every known project, most recently seen first.
func (r *Registry) List() ([]Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].LastSeen.Equal(projects[j].LastSeen) {
			return projects[i].LastSeen.After(projects[j].LastSeen)
		}
		return projects[i].Name < projects[j].Name
	})
	return projects, nil
}

// Find resolves a project by ID, name, or path.
func (r *Registry) Find(ref string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	if p := match(projects, ref); p != nil {
		return p, nil
	}
	return nil, errors.New(errors.ErrCodeProjectNotFound, "no project matching %q", ref)
}

// Record upserts a project keyed by its absolute path. New paths get an ID
// and creation time; existing records keep their identity and have name,
// layout, python and the last-seen time refreshed.
func (r *Registry) Record(p Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	abs, err := filepath.Abs(p.Path)
	if err != nil {
		return Project{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving project path %s", p.Path)
	}
	p.Path = abs

	projects, err := r.load()
	if err != nil {
		return Project{}, err
	}

	now := time.Now().UTC()
	for i := range projects {
		if projects[i].Path != p.Path {
			continue
		}
		if p.Name != "" {
			projects[i].Name = p.Name
		}
		if p.Layout != "" {
			projects[i].Layout = p.Layout
		}
		if p.Python != "" {
			projects[i].Python = p.Python
		}
		projects[i].LastSeen = now
		if err := r.save(projects); err != nil {
			return Project{}, err
		}
		return projects[i], nil
	}

	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.LastSeen = now
	projects = append(projects, p)
	if err := r.save(projects); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Touch refreshes the last-seen time of the project at path, if known.
// Unknown paths are a no-op, so read-only commands can call it freely.
func (r *Registry) Touch(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	projects, err := r.load()
	if err != nil {
		return err
	}
	for i := range projects {
		if projects[i].Path == abs {
			projects[i].LastSeen = time.Now().UTC()
			return r.save(projects)
		}
	}
	return nil
}

// Forget removes a project by ID, name, or path. The project's files on
// disk are left alone.
func (r *Registry) Forget(ref string) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return Project{}, err
	}
	for i := range projects {
		if matches(projects[i], ref) {
			removed := projects[i]
			projects = append(projects[:i], projects[i+1:]...)
			if err := r.save(projects); err != nil {
				return Project{}, err
			}
			return removed, nil
		}
	}
	return Project{}, errors.New(errors.ErrCodeProjectNotFound, "no project matching %q", ref)
}

func match(projects []Project, ref string) *Project {
	for i := range projects {
		if matches(projects[i], ref) {
			p := projects[i]
			return &p
		}
	}
	return nil
}

func matches(p Project, ref string) bool {
	if p.ID == ref || p.Name == ref {
		return true
	}
	if abs, err := filepath.Abs(ref); err == nil && p.Path == abs {
		return true
	}
	return false
}

// load reads the registry file. A missing file is an empty registry.
func (r *Registry) load() ([]Project, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading registry %s", r.path)
	}
	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parsing registry %s", r.path)
	}
	return file.Projects, nil
}

// save writes the registry atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (r *Registry) save(projects []Project) error {
	data, err := json.MarshalIndent(registryFile{Projects: projects}, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding registry")
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".projects-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating temp registry file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "writing registry")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "writing registry")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "setting registry permissions")
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "replacing registry")
	}
	return nil
}
