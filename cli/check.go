package cli

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-barry/richtext"
	"github.com/go-barry/richtext/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate templates and suite definitions by rendering every page",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		site, err := richtext.LoadSite(richtext.RuntimeConfig{
			Env:        "dev",
			ConfigPath: c.String("config"),
		})
		if err != nil {
			fmt.Printf("❌ load → %v\n", err)
			return cli.Exit("site failed to load", 1)
		}

		config := *site.Config
		config.CacheEnabled = false
		routes := site.Handlers.Routes()
		router := core.NewRouter(config, core.RuntimeContext{Env: "check"}, site.Renderer, routes...)

		var failed bool
		for _, route := range routes {
			status, body := checkRequest(router, route.Path)
			if status != http.StatusOK {
				failed = true
				fmt.Printf("❌ %s → %d %s\n", route.Path, status, bytes.TrimSpace(body))
				continue
			}
			fmt.Printf("✅ %s\n", route.Path)
		}

		if !site.Renderer.Has(core.NotFoundTemplate) {
			fmt.Printf("⚠️  %s missing, plain 404s will be served\n", core.NotFoundTemplate)
		} else if status, _ := checkRequest(router, "/__richtext_check_missing"); status != http.StatusNotFound {
			failed = true
			fmt.Printf("❌ 404 page → %d\n", status)
		} else {
			fmt.Println("✅ 404 page")
		}

		if failed {
			return cli.Exit("some pages failed to render", 1)
		}

		fmt.Printf("✅ All pages rendered successfully (%d suites).\n", site.Suites.Len())
		return nil
	},
}

func checkRequest(h http.Handler, path string) (int, []byte) {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return 0, []byte(err.Error())
	}
	w := &checkWriter{header: http.Header{}, status: http.StatusOK}
	h.ServeHTTP(w, req)
	return w.status, w.body.Bytes()
}

type checkWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (w *checkWriter) Header() http.Header         { return w.header }
func (w *checkWriter) Write(p []byte) (int, error) { return w.body.Write(p) }
func (w *checkWriter) WriteHeader(status int)      { w.status = status }
