package core

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

var assetMediaTypes = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)
	return m
}

// MinifyAsset minifies a /static/ CSS or JS file from public into
// cacheDir/static and returns its versioned URL. Outside prod, or on any
// failure, the path is returned unchanged.
func MinifyAsset(env, path string, public fs.FS, cacheDir string) string {
	if env != "prod" || public == nil || !strings.HasPrefix(path, "/static/") {
		return path
	}

	rel := strings.TrimPrefix(path, "/static/")
	if !fs.ValidPath(rel) {
		return path
	}

	ext := filepath.Ext(rel)
	mediaType, ok := assetMediaTypes[ext]
	if !ok {
		return path
	}

	stem := strings.TrimSuffix(rel, ext)
	if strings.HasSuffix(stem, ".min") {
		return path
	}

	minRel := stem + ".min" + ext
	min := filepath.Join(cacheDir, "static", filepath.FromSlash(minRel))

	original, err := fs.ReadFile(public, rel)
	if err != nil {
		return path
	}

	var buf bytes.Buffer
	if err := newMinifier().Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return path
	}
	minified := buf.Bytes()

	if err := os.MkdirAll(filepath.Dir(min), os.ModePerm); err != nil {
		return path
	}
	if err := os.WriteFile(min, minified, 0644); err != nil {
		return path
	}

	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	if _, err := gz.Write(minified); err == nil && gz.Close() == nil {
		_ = os.WriteFile(min+".gz", gzBuf.Bytes(), 0644)
	}

	return fmt.Sprintf("/static/%s?v=%s", minRel, shortHash(minified))
}

func shortHash(content []byte) string {
	h := md5.New()
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))[:6]
}
