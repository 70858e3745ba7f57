package core

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func cacheKey(route string) string {
	key := strings.Trim(route, "/")
	if key == "" {
		return "index"
	}
	return filepath.Clean(key)
}

// RouteCacheDir returns the directory under OutputDir holding route's cached
// page. Routes that would resolve outside OutputDir return ErrInvalidRoute.
func RouteCacheDir(config Config, route string) (string, error) {
	key := cacheKey(route)
	if key == ".." || strings.HasPrefix(key, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidRoute, route)
	}
	return filepath.Join(config.OutputDir, key), nil
}

func readCached(config Config, route, name string) ([]byte, bool) {
	dir, err := RouteCacheDir(config, route)
	if err != nil {
		return nil, false
	}
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, false
	}
	return content, true
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	return readCached(config, route, "index.html")
}

func GetCachedGzip(config Config, route string) ([]byte, bool) {
	return readCached(config, route, "index.html.gz")
}

func SaveCachedHTML(config Config, route string, html []byte) error {
	outDir, err := RouteCacheDir(config, route)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	htmlPath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0644); err != nil {
		return err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(html); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	return os.WriteFile(htmlPath+".gz", buf.Bytes(), 0644)
}
