package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-barry/richtext/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete cached pages and minified assets",
	ArgsUsage: "[route (optional)]",
	Flags:     []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		target := config.OutputDir
		if c.Args().Len() > 0 {
			dir, err := core.RouteCacheDir(*config, c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("invalid route %q: %w", c.Args().Get(0), err)
			}
			target = dir
		}

		info, err := os.Stat(target)
		if os.IsNotExist(err) {
			fmt.Println("🧼 Nothing to clean:", target)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to access path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", target)
		}

		pages := countCachedPages(target)
		fmt.Println("🧹 Cleaning:", target)
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}

		fmt.Printf("✅ Removed %d cached pages.\n", pages)
		return nil
	},
}

// countCachedPages counts the index.html files the router wrote under dir.
func countCachedPages(dir string) int {
	n := 0
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && d.Name() == "index.html" {
			n++
		}
		return nil
	})
	return n
}
