package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-barry/richtext"
	"github.com/go-barry/richtext/suites"
	"github.com/urfave/cli/v2"
)

const starterConfig = `outputDir: ./cache
cache: false
debugHeaders: true
debugLogs: true
`

var InitCommand = &cli.Command{
	Name:      "init",
	Usage:     "Write the built-in templates, assets and suite definitions for local editing",
	ArgsUsage: "[directory (optional)]",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "force", Usage: "overwrite existing files"},
	},
	Action: func(c *cli.Context) error {
		targetDir, _ := os.Getwd()
		if c.Args().Len() > 0 {
			targetDir = c.Args().Get(0)
		}
		force := c.Bool("force")
		fmt.Println("🚀 Writing rich text site into:", targetDir)

		if err := copyEmbeddedDir(richtext.Content, ".", targetDir, force); err != nil {
			return fmt.Errorf("failed to write site: %w", err)
		}
		if err := copyEmbeddedDir(suites.DataFS, suites.Dir, filepath.Join(targetDir, richtext.SuitesDir), force); err != nil {
			return fmt.Errorf("failed to write suites: %w", err)
		}

		configPath := filepath.Join(targetDir, richtext.DefaultConfigPath)
		if _, err := os.Stat(configPath); os.IsNotExist(err) || force {
			if err := os.WriteFile(configPath, []byte(starterConfig), 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		}

		fmt.Println("✅ Site written successfully.")
		fmt.Println("▶  Run: richtext dev")
		return nil
	},
}

func copyEmbeddedDir(source fs.FS, sourceDir string, targetDir string, force bool) error {
	return fs.WalkDir(source, sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return os.MkdirAll(targetDir, os.ModePerm)
		}

		targetPath := filepath.Join(targetDir, rel)

		if d.IsDir() {
			return os.MkdirAll(targetPath, os.ModePerm)
		}

		if _, err := os.Stat(targetPath); err == nil && !force {
			fmt.Println("⏭️  Keeping existing", targetPath)
			return nil
		}

		data, err := fs.ReadFile(source, path)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), os.ModePerm); err != nil {
			return err
		}

		return os.WriteFile(targetPath, data, 0644)
	})
}
