package richtext

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-barry/richtext/core"
)

// embeddedConfig points the site at an empty directory so the built-in
// content is used even in dev mode.
func embeddedConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "richtext.config.yml")
	yml := "outputDir: " + filepath.Join(dir, "cache") + "\ntemplateDir: " + filepath.Join(dir, "site") + "\n"
	if err := os.WriteFile(configPath, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestDetectMimeType(t *testing.T) {
	tests := map[string]string{
		"file.css":     "text/css",
		"script.js":    "application/javascript",
		"image.webp":   "image/webp",
		"icon.svg":     "image/svg+xml",
		"photo.png":    "image/png",
		"photo.jpeg":   "image/jpeg",
		"font.woff":    "font/woff",
		"font.woff2":   "font/woff2",
		"robots.txt":   "text/plain; charset=utf-8",
		"unknown.file": "application/octet-stream",
	}

	for filename, expected := range tests {
		t.Run(filename, func(t *testing.T) {
			mime := detectMimeType(filename)
			if mime != expected {
				t.Errorf("got %s, want %s", mime, expected)
			}
		})
	}
}

func TestServeFileWithHeaders(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "test.css")
	content := "body{}"
	_ = os.WriteFile(filePath, []byte(content), 0644)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/static/test.css", nil)

	serveFileWithHeaders(rec, req, filePath, "no-cache")

	resp := rec.Result()
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/css" {
		t.Errorf("unexpected content-type: %s", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("unexpected cache-control: %s", cc)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != content {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMakeStaticHandlerReturns404ForMissingFile(t *testing.T) {
	handler := makeStaticHandler(fstest.MapFS{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/missing.txt", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMakeStaticHandlerServesPublicFile(t *testing.T) {
	expected := "body { color: red; }"
	public := fstest.MapFS{"richtext.css": {Data: []byte(expected)}}
	handler := makeStaticHandler(public, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/richtext.css", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
	if rec.Body.String() != expected {
		t.Errorf("expected body %q, got %q", expected, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/css" {
		t.Errorf("unexpected content-type: %s", ct)
	}
}

func TestMakeStaticHandlerRejectsTraversal(t *testing.T) {
	handler := makeStaticHandler(fstest.MapFS{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/static/../secrets.txt", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 Bad Request, got %d", rec.Code)
	}
}

func TestMakeStaticHandlerServesGzipFromCache(t *testing.T) {
	cacheDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(cacheDir, "richtext2.min.js.gz"), []byte("gzipped content"), 0644)

	handler := makeStaticHandler(fstest.MapFS{}, cacheDir)

	req := httptest.NewRequest(http.MethodGet, "/static/richtext2.min.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Error("expected gzip Content-Encoding")
	}
	if rec.Header().Get("Vary") != "Accept-Encoding" {
		t.Error("expected Vary: Accept-Encoding header")
	}
	if rec.Header().Get("Content-Type") != "application/javascript" {
		t.Errorf("unexpected content-type %q", rec.Header().Get("Content-Type"))
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
}

func TestMakeStaticHandlerServesNonGzipCacheFile(t *testing.T) {
	cacheDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(cacheDir, "styles.css"), []byte("cached css"), 0644)

	handler := makeStaticHandler(fstest.MapFS{}, cacheDir)

	req := httptest.NewRequest(http.MethodGet, "/static/styles.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("did not expect Content-Encoding for non-gzip file")
	}
	if rec.Body.String() != "cached css" {
		t.Errorf("expected cached body, got %q", rec.Body.String())
	}
}

func TestSetupDevStaticRoutesAddsNoStore(t *testing.T) {
	public := fstest.MapFS{
		"richtext.css": {Data: []byte("body{}")},
		"robots.txt":   {Data: []byte("User-agent: *")},
	}
	mux := http.NewServeMux()
	setupDevStaticRoutes(mux, public)

	for _, path := range []string{"/static/richtext.css", "/robots.txt"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
			t.Errorf("%s: expected no-store, got %q", path, cc)
		}
	}
}

func TestBuildServerInDev(t *testing.T) {
	addr, handler, err := BuildServer(RuntimeConfig{Env: "dev", Port: 3001, ConfigPath: embeddedConfig(t)})
	if err != nil {
		t.Fatalf("BuildServer failed: %v", err)
	}
	if addr != ":3001" {
		t.Errorf("expected :3001, got %s", addr)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/richtext2/test", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for test page, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, core.LiveReloadPath) {
		t.Error("expected live reload script in dev")
	}
	if !strings.Contains(body, `href="/static/richtext.css"`) {
		t.Error("expected unminified stylesheet in dev")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/richtext2.js", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected no-store static script, got %d %q", rec.Code, rec.Header().Get("Cache-Control"))
	}
}

func TestBuildServerInDevServesLiveReload(t *testing.T) {
	useMockReloader(t)

	_, handler, err := BuildServer(RuntimeConfig{Env: "dev", Port: 3001, ConfigPath: embeddedConfig(t)})
	if err != nil {
		t.Fatalf("BuildServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, core.LiveReloadPath, nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "reload ok" {
		t.Errorf("expected mock reloader response, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestBuildServerInProd(t *testing.T) {
	configPath := embeddedConfig(t)
	_, handler, err := BuildServer(RuntimeConfig{Env: "prod", EnableCache: true, Port: 8080, ConfigPath: configPath})
	if err != nil {
		t.Fatalf("BuildServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/richtext2/about", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for about page, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, core.LiveReloadPath) {
		t.Error("did not expect live reload script in prod")
	}
	if !strings.Contains(body, "/static/richtext.min.css?v=") {
		t.Errorf("expected minified stylesheet link in prod, got %s", body)
	}

	cfg := core.LoadConfig(configPath)
	if _, ok := core.GetCachedHTML(*cfg, "/richtext2/about"); !ok {
		t.Error("expected about page to be cached in prod")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/richtext.min.css", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected minified stylesheet to be served, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "User-agent") {
		t.Errorf("expected robots.txt, got %d", rec.Code)
	}
}

func TestBuildServerRedirectsRoot(t *testing.T) {
	_, handler, err := BuildServer(RuntimeConfig{Env: "prod", ConfigPath: embeddedConfig(t)})
	if err != nil {
		t.Fatalf("BuildServer failed: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/richtext2/test" {
		t.Errorf("expected redirect to test page, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestStart_CallsListenAndServe(t *testing.T) {
	var gotAddr string
	var gotHandler http.Handler

	original := ListenAndServe
	ListenAndServe = func(addr string, handler http.Handler) error {
		gotAddr = addr
		gotHandler = handler
		return nil
	}
	defer func() { ListenAndServe = original }()

	Start(RuntimeConfig{Env: "prod", Port: 9090, ConfigPath: embeddedConfig(t)})

	if gotAddr != ":9090" {
		t.Errorf("expected :9090, got %q", gotAddr)
	}
	if gotHandler == nil {
		t.Error("expected handler to be passed to ListenAndServe")
	}
}

func TestStart_ExitsOnServerFailure(t *testing.T) {
	originalListen := ListenAndServe
	originalExit := osExit
	defer func() {
		ListenAndServe = originalListen
		osExit = originalExit
	}()

	ListenAndServe = func(addr string, handler http.Handler) error {
		return errors.New("address in use")
	}
	exitCode := -1
	osExit = func(code int) { exitCode = code }

	Start(RuntimeConfig{Env: "prod", Port: 9091, ConfigPath: embeddedConfig(t)})

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

type mockReloader struct {
	messages []string
	closed   int
}

func (m *mockReloader) Broadcast(msg string) { m.messages = append(m.messages, msg) }
func (m *mockReloader) Close() error         { m.closed++; return nil }
func (m *mockReloader) Handler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("reload ok"))
}

func useMockReloader(t *testing.T) *mockReloader {
	t.Helper()
	mock := &mockReloader{}
	original := core.NewLiveReloader
	core.NewLiveReloader = func() core.LiveReloaderInterface { return mock }
	t.Cleanup(func() { core.NewLiveReloader = original })
	return mock
}

func TestBuildServerInDevClosesReloader(t *testing.T) {
	mock := useMockReloader(t)

	_, handler, err := BuildServer(RuntimeConfig{Env: "dev", ConfigPath: embeddedConfig(t)})
	if err != nil {
		t.Fatalf("BuildServer failed: %v", err)
	}

	closer, ok := handler.(io.Closer)
	if !ok {
		t.Fatal("expected handler to implement io.Closer")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if mock.closed != 1 {
		t.Errorf("expected reloader to be closed once, got %d", mock.closed)
	}
}

func TestStart_ClosesHandlerWhenServerStops(t *testing.T) {
	mock := useMockReloader(t)

	original := ListenAndServe
	ListenAndServe = func(addr string, handler http.Handler) error { return nil }
	defer func() { ListenAndServe = original }()

	Start(RuntimeConfig{Env: "dev", Port: 9092, ConfigPath: embeddedConfig(t)})

	if mock.closed != 1 {
		t.Errorf("expected live reload to be closed after serving, got %d", mock.closed)
	}
}

type stubPages struct {
	reloads int
	err     error
}

func (p *stubPages) Reload() error {
	p.reloads++
	return p.err
}

func TestReloadOnChange_CSSOnlySkipsTemplateReload(t *testing.T) {
	pages := &stubPages{}
	lr := &mockReloader{}

	reloadOnChange(pages, lr)([]string{"public/richtext.css"})

	if pages.reloads != 0 {
		t.Errorf("expected templates not to be re-parsed, got %d reloads", pages.reloads)
	}
	if len(lr.messages) != 1 || lr.messages[0] != core.ReloadCSS {
		t.Errorf("expected css refresh, got %v", lr.messages)
	}
}

func TestReloadOnChange_TemplateEditReloadsPage(t *testing.T) {
	pages := &stubPages{}
	lr := &mockReloader{}

	reloadOnChange(pages, lr)([]string{"public/richtext.css", "templates/about.html"})

	if pages.reloads != 1 {
		t.Errorf("expected one template reload, got %d", pages.reloads)
	}
	if len(lr.messages) != 1 || lr.messages[0] != core.ReloadPage {
		t.Errorf("expected page reload, got %v", lr.messages)
	}
}

func TestReloadOnChange_ParseErrorKeepsPagesOpen(t *testing.T) {
	pages := &stubPages{err: errors.New("bad template")}
	lr := &mockReloader{}

	reloadOnChange(pages, lr)([]string{"templates/about.html"})

	if len(lr.messages) != 0 {
		t.Errorf("expected no broadcast after a failed reload, got %v", lr.messages)
	}
}
