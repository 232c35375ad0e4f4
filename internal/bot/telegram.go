package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/insight"
	"fantasy-trends/internal/trends"

	tele "gopkg.in/telebot.v3"
)

const (
	listLimit    = 10
	replyTimeout = 20 * time.Second
)

// TrendReader is the part of the trend service the bot reads from.
type TrendReader interface {
	Sleepers(ctx context.Context, req trends.SleepersRequest) (trends.SleepersView, error)
	Alerts(ctx context.Context, req trends.AlertsRequest) (trends.AlertsView, error)
	FindPlayers(ctx context.Context, name string, limit int) ([]domain.TrendRecord, error)
	PlayerHistory(ctx context.Context, playerID string) (trends.PlayerDetail, error)
}

type InsightReader interface {
	Weekly(ctx context.Context, week int) (insight.Report, error)
}

// Commands renders the replies for each bot command. It holds no telebot
// state so the replies can be built and checked without a bot.
type Commands struct {
	trends   TrendReader
	insights InsightReader
}

func NewCommands(trendReader TrendReader, insights InsightReader) *Commands {
	return &Commands{trends: trendReader, insights: insights}
}

// StartTelegramBot registers the commands and starts long polling in the
// background. An empty token skips startup.
func StartTelegramBot(token string, cmds *Commands) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Printf("failed to create Telegram bot: %v", err)
		return
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/sleepers", reply(cmds.Sleepers))
	b.Handle("/alerts", reply(cmds.Alerts))
	b.Handle("/player", reply(cmds.Player))
	b.Handle("/insights", reply(cmds.Insights))

	log.Println("Telegram bot started")
	go b.Start()
}

func reply(fn func(ctx context.Context, args []string) string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		return c.Send(fn(ctx, c.Args()))
	}
}

// Sleepers answers /sleepers [POS].
func (b *Commands) Sleepers(ctx context.Context, args []string) string {
	req := trends.SleepersRequest{Latest: true, Limit: listLimit}
	label := "all positions"
	if len(args) > 0 {
		pos, ok := domain.ParsePosition(args[0])
		if !ok {
			return fmt.Sprintf("Unknown position: %s\nUse one of: %s", args[0], positionList())
		}
		req.Criteria.Position = string(pos)
		label = string(pos)
	}

	view, err := b.trends.Sleepers(ctx, req)
	if err != nil {
		return fmt.Sprintf("Error loading sleepers: %v", err)
	}
	if len(view.Sleepers) == 0 {
		return fmt.Sprintf("No sleepers found for %s", label)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Top sleepers (%s), %d found\n", label, view.Total)
	for i, r := range view.Sleepers {
		fmt.Fprintf(&sb, "%d. %s %s %s: score %.1f, rostered %s, started %s (%s)\n",
			i+1, r.PlayerName, r.Position, r.Team, derived(r).SleeperScore,
			domain.FormatPercent(r.PercentRostered), domain.FormatPercent(r.PercentStarted),
			domain.FormatChange(r.PercentStartedChange))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Alerts answers /alerts [severity].
func (b *Commands) Alerts(ctx context.Context, args []string) string {
	req := trends.AlertsRequest{Latest: true, Limit: listLimit}
	if len(args) > 0 {
		req.Criteria.Severity = strings.ToLower(args[0])
	}

	view, err := b.trends.Alerts(ctx, req)
	if err != nil {
		return fmt.Sprintf("Error loading alerts: %v", err)
	}
	if len(view.Alerts) == 0 {
		return "No alerts right now"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Started-share alerts: %d critical, %d high, %d medium, %d low\n",
		view.Severity[domain.SeverityCritical], view.Severity[domain.SeverityHigh],
		view.Severity[domain.SeverityMedium], view.Severity[domain.SeverityLow])
	for _, r := range view.Alerts {
		fmt.Fprintf(&sb, "[%s] %s %s %s: started %s (%s)\n",
			strings.ToUpper(string(derived(r).AlertSeverity)), r.PlayerName, r.Position, r.Team,
			domain.FormatPercent(r.PercentStarted), domain.FormatChange(r.PercentStartedChange))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Player answers /player NAME with the best name match and its history.
func (b *Commands) Player(ctx context.Context, args []string) string {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return "Usage: /player Josh Allen"
	}
	matches, err := b.trends.FindPlayers(ctx, name, 5)
	if err != nil {
		return fmt.Sprintf("Error searching players: %v", err)
	}
	if len(matches) == 0 {
		return fmt.Sprintf("No player matching %q", name)
	}

	p := matches[0]
	detail, err := b.trends.PlayerHistory(ctx, p.PlayerID)
	if err != nil {
		return fmt.Sprintf("Error loading history for %s: %v", p.PlayerName, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %s)\n", detail.PlayerName, detail.Position, detail.Team)
	if detail.Latest != nil {
		l := detail.Latest
		fmt.Fprintf(&sb, "Week %d: rostered %s (%s), started %s (%s)\n", l.Week,
			domain.FormatPercent(l.PercentRostered), domain.FormatChange(l.PercentRosteredChange),
			domain.FormatPercent(l.PercentStarted), domain.FormatChange(l.PercentStartedChange))
		fmt.Fprintf(&sb, "Adds %d, drops %d\n", l.Adds, l.Drops)
	}
	fmt.Fprintf(&sb, "Started range %.1f over %d records, trend %+.1f (%s)",
		detail.StartedRange, len(detail.History), detail.RangeTrend, detail.RangeDirection)
	if len(matches) > 1 {
		others := make([]string, 0, len(matches)-1)
		for _, m := range matches[1:] {
			others = append(others, m.PlayerName)
		}
		fmt.Fprintf(&sb, "\nAlso matched: %s", strings.Join(others, ", "))
	}
	return sb.String()
}

// Insights answers /insights with the latest week's narrative.
func (b *Commands) Insights(ctx context.Context, args []string) string {
	if b.insights == nil {
		return "Insights are not available"
	}
	report, err := b.insights.Weekly(ctx, 0)
	if err != nil {
		return fmt.Sprintf("Error building insights: %v", err)
	}
	return fmt.Sprintf("Week %d insights\n%s", report.Week, report.Narrative)
}

func derived(r domain.TrendRecord) domain.Derived {
	if r.Derived == nil {
		return domain.Derived{}
	}
	return *r.Derived
}

func positionList() string {
	names := make([]string, len(domain.Positions))
	for i, p := range domain.Positions {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
