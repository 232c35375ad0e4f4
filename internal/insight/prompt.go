package insight

import (
	"fmt"
	"strings"
)

const analystPrompt = `You are a fantasy football waiver-wire analyst. You receive rule-based alerts and statistics computed from roster and start percentages for one NFL week.

Rules:
- Only use the numbers you are given. Never invent players or statistics.
- Write one short paragraph, at most five sentences, suitable for a chat message.
- Lead with the most actionable pickup, then mention risks such as big drops.
- Do not add disclaimers.`

// FormatReport renders a report as plain text, used both as the LLM input and
// as the fallback narrative.
func FormatReport(r Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Week %d\n", r.Week)
	if len(r.Alerts) > 0 {
		sb.WriteString("\nAlerts:\n")
		for _, a := range r.Alerts {
			sb.WriteString("  - " + a + "\n")
		}
	}
	if len(r.Insights) > 0 {
		sb.WriteString("\nInsights:\n")
		for _, in := range r.Insights {
			sb.WriteString("  - " + in + "\n")
		}
	}
	ks := r.KeyStats
	fmt.Fprintf(&sb, "\nKey stats: avg rostered %.1f%%, adds %d, drops %d, add/drop %.2f, trending up %.1f%%\n",
		ks.AverageRostered, ks.TotalAdds, ks.TotalDrops, ks.AddDropRatio, ks.PositiveShare)
	return sb.String()
}

// RuleText joins the alerts and insights into a single message.
func RuleText(r Report) string {
	lines := make([]string, 0, len(r.Alerts)+len(r.Insights))
	lines = append(lines, r.Alerts...)
	lines = append(lines, r.Insights...)
	return strings.Join(lines, "\n")
}
