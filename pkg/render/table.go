package render

import (
	"strconv"
	"strings"

	"ticket-analytics-plugin/pkg/models"
	"ticket-analytics-plugin/pkg/utils"

	"github.com/olekukonko/tablewriter"
)

// AgentTable renders the agent performance rows as a text table. Each rate
// is followed by its class. An empty list yields the no-data message.
func AgentTable(agents []models.AgentPerformance) string {
	if len(agents) == 0 {
		return utils.NoAgentDataMessage
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Agent", "Total", "Resolved", "Rate", "Class"})
	table.SetAutoFormatHeaders(false)
	for _, a := range agents {
		table.Append([]string{
			a.Agent,
			strconv.Itoa(a.TotalTickets),
			strconv.Itoa(a.ResolvedTickets),
			utils.FormatRate(a.ResolutionRate),
			utils.RateClass(a.ResolutionRate),
		})
	}
	table.Render()
	return sb.String()
}
