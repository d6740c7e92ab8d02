package linter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/txtx/txtx-sub001/manifest"
	"github.com/txtx/txtx-sub001/validation"
)

// RunbookExt is the extension of runbook source files.
const RunbookExt = ".tx"

// Runbook is a resolved runbook and its sources.
type Runbook struct {
	// Name is the manifest name of the runbook, or the path it was
	// resolved from.
	Name string
	// Location is the file or directory holding the sources.
	Location string
	// Files are the source files in validation order.
	Files []validation.SourceFile
}

// Paths returns the paths of the runbook files.
func (r *Runbook) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// FindManifest searches dir and its parents for the manifest file. The
// search stops at a directory containing .git.
func FindManifest(fs afero.Fs, dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, manifest.DefaultFileName)
		if ok, _ := afero.Exists(fs, candidate); ok {
			return candidate, true
		}
		if ok, _ := afero.DirExists(fs, filepath.Join(dir, ".git")); ok {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// readRunbook loads the sources at location: a single file, or every .tx
// file of a directory in lexical order.
func readRunbook(fs afero.Fs, name, location string) (*Runbook, error) {
	isDir, err := afero.IsDir(fs, location)
	if err != nil {
		return nil, fmt.Errorf("runbook '%s' at %s: %w", name, location, ErrRunbookNotFound)
	}

	rb := &Runbook{Name: name, Location: location}
	if !isDir {
		content, err := afero.ReadFile(fs, location)
		if err != nil {
			return nil, fmt.Errorf("read runbook %s: %w", location, err)
		}
		rb.Files = []validation.SourceFile{{Path: location, Content: content}}
		return rb, nil
	}

	entries, err := afero.ReadDir(fs, location)
	if err != nil {
		return nil, fmt.Errorf("read runbook directory %s: %w", location, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), RunbookExt) {
			continue
		}
		paths = append(paths, filepath.Join(location, entry.Name()))
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("runbook '%s': no %s files in %s: %w", name, RunbookExt, location, ErrRunbookNotFound)
	}

	for _, p := range paths {
		content, err := afero.ReadFile(fs, p)
		if err != nil {
			return nil, fmt.Errorf("read runbook %s: %w", p, err)
		}
		rb.Files = append(rb.Files, validation.SourceFile{Path: p, Content: content})
	}
	return rb, nil
}

// ResolveRunbook finds the sources of the runbook called name. name is
// tried as a path first, then as a manifest runbook name, id or location.
// Without a manifest, name.tx and the runbooks directory are searched.
func ResolveRunbook(fs afero.Fs, m *manifest.Manifest, dir, name string) (*Runbook, error) {
	if ok, _ := afero.Exists(fs, name); ok {
		return readRunbook(fs, name, name)
	}

	if m != nil {
		entry, ok := m.Runbook(name)
		if !ok {
			return nil, fmt.Errorf("runbook '%s' not found in manifest: %w", name, ErrRunbookNotFound)
		}
		return readRunbook(fs, entry.Name, filepath.Join(m.Dir(), entry.Location))
	}

	candidates := []string{
		filepath.Join(dir, name+RunbookExt),
		filepath.Join(dir, "runbooks", name+RunbookExt),
		filepath.Join(dir, name),
		filepath.Join(dir, "runbooks", name),
	}
	for _, c := range candidates {
		if ok, _ := afero.Exists(fs, c); ok {
			return readRunbook(fs, name, c)
		}
	}
	return nil, fmt.Errorf("runbook '%s': searched %s and the runbooks directory: %w", name, dir, ErrRunbookNotFound)
}
