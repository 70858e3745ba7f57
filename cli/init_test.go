package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-barry/richtext"
	"github.com/go-barry/richtext/suites"
	"github.com/urfave/cli/v2"
)

func copyEmbeddedDirForTest(target string) error {
	if err := copyEmbeddedDir(richtext.Content, ".", target, false); err != nil {
		return err
	}
	return copyEmbeddedDir(suites.DataFS, suites.Dir, filepath.Join(target, richtext.SuitesDir), false)
}

func TestInitCommand_WritesSite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "site")

	output := captureOutput(func() {
		app := &cli.App{Commands: []*cli.Command{InitCommand}}
		if err := app.Run([]string{"richtext", "init", target}); err != nil {
			t.Fatalf("init failed: %v", err)
		}
	})

	expected := []string{
		"templates/about.html",
		"templates/404.html",
		"templates/partials/head.html",
		"richtext2/templates/richtext2.html",
		"public/richtext.css",
		"public/richtext2.js",
		"suites/data/apply.yml",
		"suites/data/queryValueCSS.yml",
		"richtext.config.yml",
	}
	for _, rel := range expected {
		if _, err := os.Stat(filepath.Join(target, rel)); err != nil {
			t.Errorf("expected %s to be written: %v", rel, err)
		}
	}
	if !strings.Contains(output, "Site written successfully") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestInitCommand_KeepsExistingFilesUnlessForced(t *testing.T) {
	target := t.TempDir()
	about := filepath.Join(target, "templates", "about.html")
	_ = os.MkdirAll(filepath.Dir(about), 0755)
	_ = os.WriteFile(about, []byte("mine"), 0644)

	captureOutput(func() {
		app := &cli.App{Commands: []*cli.Command{InitCommand}}
		_ = app.Run([]string{"richtext", "init", target})
	})

	if data, _ := os.ReadFile(about); string(data) != "mine" {
		t.Errorf("expected existing file to be kept, got %q", data)
	}

	captureOutput(func() {
		app := &cli.App{Commands: []*cli.Command{InitCommand}}
		_ = app.Run([]string{"richtext", "init", "--force", target})
	})

	if data, _ := os.ReadFile(about); string(data) == "mine" {
		t.Error("expected --force to overwrite existing file")
	}
}

func TestInitCommand_SiteLoadsInDevMode(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "site")
	if err := copyEmbeddedDirForTest(site); err != nil {
		t.Fatal(err)
	}

	custom := "id: A\ncaption: Custom Apply\ngroups: []\n"
	if err := os.WriteFile(filepath.Join(site, "suites", "data", "apply.yml"), []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := richtext.LoadSite(richtext.RuntimeConfig{Env: "dev", ConfigPath: writeConfig(t, dir, site)})
	if err != nil {
		t.Fatalf("LoadSite failed: %v", err)
	}
	if !loaded.OnDisk {
		t.Error("expected dev mode to use the initialised directory")
	}
	apply, ok := loaded.Suites.Get("apply")
	if !ok || apply.Caption != "Custom Apply" {
		t.Errorf("expected on-disk suite definition, got %+v", apply)
	}
}
