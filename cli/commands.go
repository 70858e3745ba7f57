package cli

import (
	"github.com/go-barry/richtext"
	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the YAML config file",
	Value:   richtext.DefaultConfigPath,
}

var portFlag = &cli.IntFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "port to listen on",
	Value:   8080,
	EnvVars: []string{"RICHTEXT_PORT"},
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Serve the tests in dev mode (no caching, live reload)",
	Flags: []cli.Flag{configFlag, portFlag},
	Action: func(c *cli.Context) error {
		cfg := richtext.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		}
		richtext.Start(cfg)
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Serve the tests in production mode (page cache, minified assets)",
	Flags: []cli.Flag{configFlag, portFlag},
	Action: func(c *cli.Context) error {
		cfg := richtext.RuntimeConfig{
			Env:         "prod",
			EnableCache: true,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		}
		richtext.Start(cfg)
		return nil
	},
}
