package main

import (
	"os"

	"ticket-analytics-plugin/pkg/plugin"

	"github.com/grafana/grafana-plugin-sdk-go/backend/datasource"
	"github.com/grafana/grafana-plugin-sdk-go/backend/log"
)

func main() {
	// Start listening to requests sent from Grafana. Manage automatically
	// creates a new instance of the datasource for each datasource
	// configuration in Grafana.
	if err := datasource.Manage("ticket-analytics-datasource", plugin.NewDatasource, datasource.ManageOpts{}); err != nil {
		log.DefaultLogger.Error(err.Error())
		os.Exit(1)
	}
}
