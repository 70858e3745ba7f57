package richtext

import (
	"embed"
	"io/fs"
)

//go:embed templates richtext2/templates public
var content embed.FS

// Content holds the built-in templates and static files, laid out as on disk:
// templates/, richtext2/templates/ and public/.
var Content fs.FS = content
