// Package richtext assembles the rich-text test server: page templates,
// suite definitions, static assets and, in dev mode, live reload.
package richtext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-barry/richtext/core"
	"github.com/go-barry/richtext/richtext2"
	"github.com/go-barry/richtext/suites"
)

const DefaultConfigPath = "richtext.config.yml"

// SuitesDir is where `richtext init` writes suite definitions for editing.
const SuitesDir = "suites/data"

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	ConfigPath  string
}

var ListenAndServe = http.ListenAndServe

var osExit = os.Exit

var Start = func(cfg RuntimeConfig) {
	fmt.Println("Starting richtext in", cfg.Env, "mode...")

	addr, handler, err := BuildServer(cfg)
	if err != nil {
		log.Printf("build server: %v", err)
		osExit(1)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("✅ Rich text tests at http://localhost%s/%s/test\n", addr, richtext2.Category)
	served := make(chan error, 1)
	go func() { served <- ListenAndServe(addr, handler) }()

	select {
	case err = <-served:
	case <-ctx.Done():
		fmt.Println("👋 Shutting down")
	}

	if c, ok := handler.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			log.Printf("shutdown: %v", cerr)
		}
	}
	if err != nil {
		log.Printf("serve: %v", err)
		osExit(1)
	}
}

// Site is everything BuildServer loads before wiring routes.
type Site struct {
	Config   *core.Config
	Content  fs.FS
	Public   fs.FS
	Suites   *suites.Registry
	Renderer *core.Renderer
	Handlers *richtext2.Handlers
	OnDisk   bool
}

// LoadSite resolves content, suites and templates for cfg. In dev mode a
// working directory prepared by `richtext init` takes precedence over the
// built-in files.
func LoadSite(cfg RuntimeConfig) (*Site, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config := core.LoadConfig(configPath)
	config.CacheEnabled = cfg.EnableCache

	site := &Site{Config: config, Content: Content}
	if cfg.Env == "dev" && hasTemplates(config.TemplateDir) {
		site.Content = os.DirFS(config.TemplateDir)
		site.OnDisk = true
	}

	public, err := fs.Sub(site.Content, "public")
	if err != nil {
		return nil, fmt.Errorf("public assets: %w", err)
	}
	if site.OnDisk {
		public = os.DirFS(config.PublicDir)
	}
	site.Public = public

	if site.OnDisk && dirExists(filepath.Join(config.TemplateDir, SuitesDir)) {
		site.Suites, err = suites.Load(site.Content, SuitesDir, suites.Names...)
	} else {
		site.Suites, err = suites.Default()
	}
	if err != nil {
		return nil, err
	}

	funcs := core.TemplateFuncs(cfg.Env, site.Public, config.OutputDir)
	site.Renderer, err = core.NewRenderer(site.Content, funcs, "templates", richtext2.TemplateDir)
	if err != nil {
		return nil, err
	}

	site.Handlers, err = richtext2.NewHandlers(site.Renderer, site.Suites)
	if err != nil {
		return nil, err
	}
	return site, nil
}

// BuildServer loads the site and returns its listen address and root
// handler. The handler implements io.Closer; closing it stops the dev
// watcher and disconnects live reload clients.
func BuildServer(cfg RuntimeConfig) (string, http.Handler, error) {
	site, err := LoadSite(cfg)
	if err != nil {
		return "", nil, err
	}

	mux := http.NewServeMux()
	root := &siteHandler{Handler: mux}
	cacheStaticDir := filepath.Join(site.Config.OutputDir, "static")

	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, site.Public)

		reloader := core.NewLiveReloader()
		mux.HandleFunc(core.LiveReloadPath, reloader.Handler)

		if site.OnDisk {
			dirs := []string{
				filepath.Join(site.Config.TemplateDir, "templates"),
				filepath.Join(site.Config.TemplateDir, core.PartialsDir),
				filepath.Join(site.Config.TemplateDir, richtext2.TemplateDir),
				site.Config.PublicDir,
			}
			watcher, err := core.WatchDirs(dirs, 100*time.Millisecond, reloadOnChange(site.Renderer, reloader))
			if err != nil {
				log.Printf("watch templates: %v", err)
			} else {
				root.closers = append(root.closers, watcher)
			}
		}
		root.closers = append(root.closers, reloader)
	} else {
		mux.Handle("/static/", makeStaticHandler(site.Public, cacheStaticDir))
		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
			serveFSFile(w, r, site.Public, "robots.txt", "public, max-age=86400")
		})
	}

	router := core.NewRouter(*site.Config, core.RuntimeContext{Env: cfg.Env}, site.Renderer, site.Handlers.Routes()...)
	mux.Handle("/", router)

	return fmt.Sprintf(":%d", cfg.Port), root, nil
}

type templateReloader interface {
	Reload() error
}

// reloadOnChange swaps stylesheets in place when only CSS changed and
// otherwise re-parses templates before asking pages to reload.
func reloadOnChange(pages templateReloader, lr core.LiveReloaderInterface) func(changed []string) {
	return func(changed []string) {
		kind := core.ReloadKind(changed)
		if kind == core.ReloadPage {
			if err := pages.Reload(); err != nil {
				log.Printf("reload templates: %v", err)
				return
			}
		}
		lr.Broadcast(kind)
	}
}

// siteHandler is the root handler with the resources that must be released
// when the server stops, closed in order.
type siteHandler struct {
	http.Handler
	closers []io.Closer
}

func (h *siteHandler) Close() error {
	var errs []error
	for _, c := range h.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	h.closers = nil
	return errors.Join(errs...)
}

func setupDevStaticRoutes(mux *http.ServeMux, public fs.FS) {
	files := http.FileServer(http.FS(public))
	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})))

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		serveFSFile(w, r, public, "robots.txt", "no-store")
	})
}

// makeStaticHandler serves /static/ from the minified cache first, then
// from public.
func makeStaticHandler(public fs.FS, cacheDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(trimmed, "..") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		cachedFile := filepath.Join(cacheDir, filepath.FromSlash(trimmed))
		gzipFile := cachedFile + ".gz"
		immutable := "public, max-age=31536000, immutable"

		if acceptsGzip(r) {
			if _, err := os.Stat(gzipFile); err == nil {
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Cache-Control", immutable)
				http.ServeFile(w, r, gzipFile)
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, immutable)
			return
		}

		if _, err := fs.Stat(public, trimmed); err == nil {
			serveFSFile(w, r, public, trimmed, immutable)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, file, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(file))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, file)
}

func serveFSFile(w http.ResponseWriter, r *http.Request, fsys fs.FS, name, cacheControl string) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", detectMimeType(name))
	w.Header().Set("Cache-Control", cacheControl)
	w.Write(data)
}

func detectMimeType(file string) string {
	switch strings.ToLower(path.Ext(filepath.ToSlash(file))) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func hasTemplates(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, core.AboutTemplate))
	return err == nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
