package cli

import (
	"fmt"

	"github.com/go-barry/richtext"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print configuration, registered suites and cache summary",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		site, err := richtext.LoadSite(richtext.RuntimeConfig{
			Env:        "dev",
			ConfigPath: c.String("config"),
		})
		if err != nil {
			return fmt.Errorf("load site: %w", err)
		}
		config := site.Config

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		if site.OnDisk {
			fmt.Println("📝 Templates:", config.TemplateDir)
		} else {
			fmt.Println("📝 Templates: built-in")
		}
		fmt.Println()

		total := 0
		for _, s := range site.Suites.All() {
			n := s.TestCount()
			total += n
			hidden := ""
			if s.Hidden {
				hidden = " (hidden)"
			}
			fmt.Printf("   %-16s %-4s %3d tests  %s%s\n", s.Name, s.ID, n, s.Caption, hidden)
		}
		fmt.Println()

		cacheCount := countCachedPages(config.OutputDir)

		fmt.Println("🧪 Suites Registered:", site.Suites.Len())
		fmt.Println("🧪 Test Cases:", total)
		fmt.Println("🗂️  Templates Found:", len(site.Renderer.Names()))
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}
