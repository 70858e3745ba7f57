package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// writeConfig writes a config whose output and template dirs live under dir.
func writeConfig(t *testing.T, dir, templateDir string) string {
	t.Helper()
	path := filepath.Join(dir, "richtext.config.yml")
	yml := "outputDir: " + filepath.Join(dir, "cache") + "\n" +
		"templateDir: " + templateDir + "\n" +
		"publicDir: " + filepath.Join(templateDir, "public") + "\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
