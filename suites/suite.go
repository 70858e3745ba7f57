// Package suites holds the rich-text test definitions served by the test pages.
//
// A suite is a named, ordered collection of test cases for one editing
// command family. Suites are read from YAML and kept in a Registry that
// preserves the order they were added in.
package suites

// Suite is one collection of test groups, e.g. the "apply" tests.
type Suite struct {
	Name         string  `yaml:"-" json:"name"`
	ID           string  `yaml:"id" json:"id"`
	Caption      string  `yaml:"caption" json:"caption"`
	Hidden       bool    `yaml:"hidden" json:"-"`
	CheckAttrs   bool    `yaml:"checkAttrs" json:"checkAttrs"`
	CheckStyle   bool    `yaml:"checkStyle" json:"checkStyle"`
	StyleWithCSS bool    `yaml:"styleWithCSS" json:"styleWithCSS"`
	Groups       []Group `yaml:"groups" json:"groups"`
}

// Group is a set of cases that share a test class and command.
type Group struct {
	Class   string `yaml:"class" json:"class"`
	Desc    string `yaml:"desc" json:"desc"`
	Command string `yaml:"command" json:"command,omitempty"`
	Value   string `yaml:"value" json:"value,omitempty"`
	Tests   []Case `yaml:"tests" json:"tests"`
}

// Case is a single test: the initial editable content and the accepted results.
type Case struct {
	ID       string   `yaml:"id" json:"id"`
	Desc     string   `yaml:"desc" json:"desc"`
	Command  string   `yaml:"command" json:"command,omitempty"`
	Value    string   `yaml:"value" json:"value,omitempty"`
	Pad      string   `yaml:"pad" json:"pad"`
	Expected []string `yaml:"expected" json:"expected"`
}

// TestCount returns the number of cases across all groups.
func (s *Suite) TestCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Tests)
	}
	return n
}
