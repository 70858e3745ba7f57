package richtext2

import (
	"fmt"
	"net/http"

	"github.com/go-barry/richtext/core"
	"github.com/go-barry/richtext/suites"
)

const overview = `These tests cover browers' implementations of
  <a href="http://blog.whatwg.org/the-road-to-html-5-contenteditable">contenteditable</a>
  for basic rich text formatting commands. Most browser implementations do very
  well at editing the HTML which is generated by their own execCommands. But a
  big problem happens when developers try to make cross-browser web
  applications using contenteditable - most browsers are not able to correctly
  change formatting generated by other browsers. On top of that, most browsers
  allow users to to paste arbitrary HTML from other webpages into a
  contenteditable region, which is even harder for browsers to properly
  format. These tests check how well the execCommand, queryCommandState,
  and queryCommandValue functions work with different types of HTML.`

// Handlers serves the category pages. Construct with NewHandlers.
type Handlers struct {
	renderer core.PageRenderer
	suites   []*suites.Suite
	about    []core.AboutTest
}

// NewHandlers selects the SuiteOrder suites from reg. Every name must be
// registered.
func NewHandlers(renderer core.PageRenderer, reg *suites.Registry) (*Handlers, error) {
	selected, err := reg.Select(SuiteOrder...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Category, err)
	}

	about := make([]core.AboutTest, 0, len(selected))
	for _, s := range selected {
		about = append(about, core.AboutTest{
			Key:    s.Name,
			Name:   s.Caption,
			Doc:    fmt.Sprintf("%d tests", s.TestCount()),
			Hidden: s.Hidden,
		})
	}

	return &Handlers{renderer: renderer, suites: selected, about: about}, nil
}

// About renders the category overview and its visible suites.
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) error {
	return core.About(w, r, h.renderer, core.AboutPage{
		Category:      Category,
		CategoryTitle: "Rich Text",
		Overview:      overview,
		ShowHidden:    false,
		Tests:         h.about,
	})
}

// PageContext returns the data the test page template is rendered with.
func (h *Handlers) PageContext() map[string]interface{} {
	return map[string]interface{}{
		"classes":        Classes,
		"commonIDPrefix": TestIDPrefix,
		"strict":         false,
		"suites":         append([]*suites.Suite(nil), h.suites...),
	}
}

// RunTests renders the test page with PageContext.
func (h *Handlers) RunTests(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return h.renderer.Render(w, TemplatePath(Category), h.PageContext())
}

// Routes returns the category's routes for a core.Router.
func (h *Handlers) Routes() []core.Route {
	return []core.Route{
		{Path: "/" + Category + "/test", Handler: h.RunTests},
		{Path: "/" + Category + "/about", Handler: h.About},
	}
}
