package suites

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yml
var dataFS embed.FS

// DataFS exposes the built-in definitions, rooted so that Dir resolves.
var DataFS fs.FS = dataFS

// Dir is the directory holding the built-in definitions inside DataFS.
const Dir = "data"

// Names lists the built-in suites in the order the test page shows them.
var Names = []string{
	"selection",
	"apply",
	"applyCSS",
	"change",
	"changeCSS",
	"unapply",
	"unapplyCSS",
	"delete",
	"forwarddelete",
	"insert",
	"querySupported",
	"queryEnabled",
	"queryIndeterm",
	"queryState",
	"queryStateCSS",
	"queryValue",
	"queryValueCSS",
}

// Default loads the built-in definitions.
func Default() (*Registry, error) {
	return Load(DataFS, Dir, Names...)
}

// Load reads <dir>/<name>.yml from fsys for every name, in order.
func Load(fsys fs.FS, dir string, names ...string) (*Registry, error) {
	reg := NewRegistry()
	for _, name := range names {
		s, err := loadSuite(fsys, path.Join(dir, name+".yml"))
		if err != nil {
			return nil, err
		}
		s.Name = name
		if err := reg.Add(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func loadSuite(fsys fs.FS, file string) (*Suite, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("read suite %s: %w", file, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Suite
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", file, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("parse suite %s: missing id", file)
	}
	s.fillEmpty()
	return &s, nil
}

// fillEmpty replaces omitted lists with empty ones so the page script always
// receives arrays.
func (s *Suite) fillEmpty() {
	if s.Groups == nil {
		s.Groups = []Group{}
	}
	for i := range s.Groups {
		g := &s.Groups[i]
		if g.Tests == nil {
			g.Tests = []Case{}
		}
		for j := range g.Tests {
			if g.Tests[j].Expected == nil {
				g.Tests[j].Expected = []string{}
			}
		}
	}
}
