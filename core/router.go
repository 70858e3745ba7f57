package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotFoundTemplate is rendered for unknown paths when the renderer has it.
const NotFoundTemplate = "templates/404.html"

// HandlerFunc is a page handler. A returned error becomes a 500 response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type Route struct {
	Path    string
	Handler HandlerFunc
}

type RuntimeContext struct {
	Env string
}

type Router struct {
	config   Config
	env      string
	renderer PageRenderer
	routes   map[string]Route
	order    []string
}

var NewRouter = func(config Config, ctx RuntimeContext, renderer PageRenderer, routes ...Route) http.Handler {
	r := &Router{
		config:   config,
		env:      ctx.Env,
		renderer: renderer,
		routes:   make(map[string]Route, len(routes)),
	}
	for _, route := range routes {
		r.Handle(route)
	}
	return r
}

func (r *Router) Handle(route Route) {
	p := normalizePath(route.Path)
	if _, ok := r.routes[p]; !ok {
		r.order = append(r.order, p)
	}
	route.Path = p
	r.routes[p] = route
}

func normalizePath(p string) string {
	return "/" + strings.Trim(p, "/")
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	path := normalizePath(req.URL.Path)
	reqID := uuid.NewString()

	if r.config.DebugHeaders {
		w.Header().Set("X-Request-ID", reqID)
	}

	if path == "/" && len(r.order) > 0 {
		http.Redirect(w, req, r.order[0], http.StatusFound)
		return
	}

	route, ok := r.routes[path]
	if !ok {
		r.notFound(w, req)
		r.logf(reqID, req, http.StatusNotFound, start)
		return
	}

	if r.config.DebugHeaders {
		w.Header().Set("X-Richtext-Route", route.Path)
	}

	cacheable := r.config.CacheEnabled && req.Method == http.MethodGet
	if cacheable && r.serveCached(w, req, path) {
		r.logf(reqID, req, http.StatusOK, start)
		return
	}

	buf := newPageBuffer()
	if err := route.Handler(buf, req); err != nil {
		log.Printf("[%s] %s %s: %v", reqID, req.Method, path, err)
		if IsNotFoundError(err) {
			r.notFound(w, req)
			r.logf(reqID, req, http.StatusNotFound, start)
			return
		}
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		r.logf(reqID, req, http.StatusInternalServerError, start)
		return
	}

	body := buf.body.Bytes()
	status := buf.status
	if cacheable && status == http.StatusOK {
		if err := SaveCachedHTML(r.config, path, body); err != nil {
			log.Printf("[%s] cache %s: %v", reqID, path, err)
		}
	}

	for k, v := range buf.header {
		w.Header()[k] = v
	}
	if r.env == "dev" {
		w.Header().Set("Cache-Control", "no-store")
	}
	r.writePage(w, req, status, body)
	r.logf(reqID, req, status, start)
}

func (r *Router) serveCached(w http.ResponseWriter, req *http.Request, path string) bool {
	html, ok := GetCachedHTML(r.config, path)
	if !ok {
		return false
	}

	etag := generateETag(html)
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.config.DebugHeaders {
		w.Header().Set("X-Richtext-Cache", "HIT")
	}
	if match := req.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	if acceptsGzip(req) {
		if gz, ok := GetCachedGzip(r.config, path); ok {
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Set("Vary", "Accept-Encoding")
			w.WriteHeader(http.StatusOK)
			w.Write(gz)
			return true
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write(html)
	return true
}

func (r *Router) writePage(w http.ResponseWriter, req *http.Request, status int, body []byte) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if status == http.StatusOK {
		etag := generateETag(body)
		w.Header().Set("ETag", etag)
		if req.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	w.Write(body)
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	if r.renderer != nil {
		var buf bytes.Buffer
		data := map[string]interface{}{"path": req.URL.Path}
		if err := r.renderer.Render(&buf, NotFoundTemplate, data); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			w.Write(buf.Bytes())
			return
		}
	}
	http.NotFound(w, req)
}

func (r *Router) logf(reqID string, req *http.Request, status int, start time.Time) {
	if !r.config.DebugLogs {
		return
	}
	log.Printf("[%s] %s %s -> %d (%s)", reqID, req.Method, req.URL.Path, status, time.Since(start))
}

func generateETag(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

// pageBuffer collects a handler's response so errors can still become a
// clean 500 and successful pages can be cached.
type pageBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newPageBuffer() *pageBuffer {
	return &pageBuffer{header: http.Header{}, status: http.StatusOK}
}

func (b *pageBuffer) Header() http.Header         { return b.header }
func (b *pageBuffer) Write(p []byte) (int, error) { return b.body.Write(p) }
func (b *pageBuffer) WriteHeader(status int)      { b.status = status }
