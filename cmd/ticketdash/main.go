// Command ticketdash renders the ticket analytics dashboard outside Grafana.
// Charts are exported as SVG files and metric values as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "ticketdash"
	app.Usage = "render the support ticket analytics dashboard"
	app.Version = "1.0.0"

	configFlag := cli.StringFlag{Name: "config, c", Usage: "path to the YAML settings file", Value: "ticketdash.yaml"}
	outFlag := cli.StringFlag{Name: "out, o", Usage: "directory the dashboard is written to", Value: "dashboard"}

	app.Commands = []cli.Command{
		{
			Name:   "refresh",
			Usage:  "fetch every dataset once and write the dashboard",
			Flags:  []cli.Flag{configFlag, outFlag},
			Action: refreshAction,
		},
		{
			Name:  "watch",
			Usage: "write the dashboard, then apply commands read from stdin (refresh, range <days>, quit)",
			Flags: []cli.Flag{
				configFlag,
				outFlag,
				cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address, e.g. :9090"},
			},
			Action: watchAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.DefaultLogger.Error("ticketdash failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
