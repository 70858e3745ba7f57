package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

// PartialsDir holds templates that are parsed into every page.
const PartialsDir = "templates/partials"

// Renderer renders the page templates found under a set of roots in an
// fs.FS. Pages are addressed by their path, e.g. "templates/about.html".
type Renderer struct {
	fsys  fs.FS
	funcs template.FuncMap
	roots []string

	mu    sync.RWMutex
	pages map[string]*template.Template
}

func NewRenderer(fsys fs.FS, funcs template.FuncMap, roots ...string) (*Renderer, error) {
	r := &Renderer{fsys: fsys, funcs: funcs, roots: roots}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses every page. On error the previous set stays in place.
func (r *Renderer) Reload() error {
	partials, err := r.readDir(PartialsDir)
	if err != nil {
		return err
	}

	pages := map[string]*template.Template{}
	for _, root := range r.roots {
		files, err := r.readDir(root)
		if err != nil {
			return err
		}
		for name, src := range files {
			tmpl := template.New(name).Funcs(r.funcs)
			for pname, psrc := range partials {
				if _, err := tmpl.New(pname).Parse(psrc); err != nil {
					return fmt.Errorf("parse %s: %w", pname, err)
				}
			}
			if _, err := tmpl.Parse(src); err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			pages[name] = tmpl
		}
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// readDir returns the .html files directly inside dir. A missing dir is empty.
func (r *Renderer) readDir(dir string) (map[string]string, error) {
	entries, err := fs.ReadDir(r.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	out := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		out[name] = string(data)
	}
	return out, nil
}

func (r *Renderer) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pages[name]
	return ok
}

// Render executes the named page into w. Nothing is written unless the
// whole page executes.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	r.mu.RLock()
	tmpl, ok := r.pages[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
