package core

import (
	"html/template"
	"io"
	"net/http"
)

// AboutTemplate is the page About renders.
const AboutTemplate = "templates/about.html"

// PageRenderer renders a named template with data.
type PageRenderer interface {
	Render(w io.Writer, name string, data interface{}) error
}

// AboutTest is one entry in the category's test listing.
type AboutTest struct {
	Key    string
	Name   string
	Doc    string
	Hidden bool
}

// AboutPage describes one category's about page. Overview is trusted HTML.
type AboutPage struct {
	Category      string
	CategoryTitle string
	Overview      string
	ShowHidden    bool
	Tests         []AboutTest
}

// About renders the shared about page for a test category.
func About(w http.ResponseWriter, r *http.Request, renderer PageRenderer, page AboutPage) error {
	tests := make([]AboutTest, 0, len(page.Tests))
	for _, t := range page.Tests {
		if t.Hidden && !page.ShowHidden {
			continue
		}
		tests = append(tests, t)
	}

	data := map[string]interface{}{
		"category":       page.Category,
		"category_title": page.CategoryTitle,
		"overview":       template.HTML(page.Overview),
		"show_hidden":    page.ShowHidden,
		"tests":          tests,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return renderer.Render(w, AboutTemplate, data)
}
