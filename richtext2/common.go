// Package richtext2 serves the contenteditable rich-text test category: an
// about page and the page that lists every test suite for the client harness.
package richtext2

// Category is the category identifier used in URLs and template paths.
const Category = "richtext2"

// TestIDPrefix prefixes the element IDs the test page generates.
const TestIDPrefix = "RTE2"

// Classes are the test classes shown on the test page, in display order.
var Classes = []string{"Finalized", "RFC", "Proposed"}

// SuiteOrder is the order suites appear on the test page. It groups
// selection, content-mutating commands and query commands.
var SuiteOrder = []string{
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

// TemplatePath returns the path of a category template, e.g.
// "richtext2/templates/richtext2.html".
func TemplatePath(name string) string {
	return Category + "/templates/" + name + ".html"
}

// TemplateDir is the renderer root holding this category's templates.
const TemplateDir = Category + "/templates"
