package main

import (
	"log"
	"os"

	rtcli "github.com/go-barry/richtext/cli"
	clilib "github.com/urfave/cli/v2"
)

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "richtext",
		Usage: "Serve the rich text editing compatibility tests",
		Commands: []*clilib.Command{
			rtcli.InitCommand,
			rtcli.DevCommand,
			rtcli.ProdCommand,
			rtcli.CleanCommand,
			rtcli.CheckCommand,
			rtcli.InfoCommand,
		},
	}
	return app.Run(args)
}
