package core

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/segmentio/encoding/json"
	"github.com/spf13/cast"
)

const liveReloadScript = `<script>(function(){var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"` + LiveReloadPath + `");ws.onmessage=function(e){if(e.data==="` + ReloadCSS + `"){document.querySelectorAll('link[rel="stylesheet"]').forEach(function(l){l.href=l.href.split("?")[0]+"?r="+Date.now();});}else if(e.data==="` + ReloadPage + `"){location.reload();}};})();</script>`

// TemplateFuncs returns the helpers available to every page template. It
// extends sprig's HTML-safe function set.
func TemplateFuncs(env string, public fs.FS, cacheDir string) template.FuncMap {
	funcs := sprig.HtmlFuncMap()

	funcs["minify"] = func(path string) string {
		return MinifyAsset(env, path, public, cacheDir)
	}
	funcs["props"] = func(values ...interface{}) map[string]interface{} {
		if len(values)%2 != 0 {
			panic("props must be called with even number of arguments")
		}
		m := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				panic("props keys must be strings")
			}
			m[key] = values[i+1]
		}
		return m
	}
	funcs["safeHTML"] = func(s interface{}) template.HTML {
		switch val := s.(type) {
		case template.HTML:
			return val
		case nil:
			return ""
		default:
			return template.HTML(cast.ToString(val))
		}
	}
	funcs["json"] = func(v interface{}) (template.JS, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("json: %w", err)
		}
		return template.JS(data), nil
	}
	funcs["liveReload"] = func() template.HTML {
		if env != "dev" {
			return ""
		}
		return template.HTML(liveReloadScript)
	}
	funcs["versioned"] = func(path string) string {
		if !strings.HasPrefix(path, "/static/") {
			return path
		}

		rel := strings.TrimPrefix(path, "/static/")
		if public != nil {
			if content, err := fs.ReadFile(public, rel); err == nil {
				return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
			}
		}
		if content, err := os.ReadFile(filepath.Join(cacheDir, "static", rel)); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}

		return path
	}

	return funcs
}
