package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/service"
	"fantasy-trends/internal/trends"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	boardLimit  = 25
	loadTimeout = 15 * time.Second
)

// BoardSource is what the board reads and refreshes.
type BoardSource interface {
	Sleepers(ctx context.Context, req trends.SleepersRequest) (trends.SleepersView, error)
	Alerts(ctx context.Context, req trends.AlertsRequest) (trends.AlertsView, error)
	Favorites(ctx context.Context, req trends.FavoritesRequest) (trends.FavoritesView, error)
	Refresh(ctx context.Context) (service.RefreshResult, error)
}

type Tab int

const (
	TabSleepers Tab = iota
	TabAlerts
	TabFavorites
	tabCount
)

var tabNames = [tabCount]string{"Sleepers", "Alerts", "Favorites"}

func (t Tab) String() string { return tabNames[t] }

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type loadedMsg struct {
	seq     int
	tab     Tab
	rows    []table.Row
	summary string
	err     error
}

type refreshedMsg struct {
	result service.RefreshResult
	err    error
}

// Model is the bubbletea model of the trend board.
type Model struct {
	source   BoardSource
	username string
	tab      Tab
	// seq identifies the newest load; results from older loads are dropped.
	seq      int
	table    table.Model
	summary  string
	status   string
	err      error
	loading  bool
	width    int
	height   int
}

func NewModel(source BoardSource, username string) Model {
	t := table.New(
		table.WithColumns(columnsFor(TabSleepers)),
		table.WithFocused(true),
		table.WithHeight(boardLimit),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("12"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	t.SetStyles(styles)

	return Model{source: source, username: username, tab: TabSleepers, seq: 1, table: t, loading: true}
}

// SetSize fits the table to the terminal, leaving room for the header and footer.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	if height > 6 {
		m.table.SetHeight(height - 6)
	}
}

func (m Model) Tab() Tab { return m.tab }

func (m Model) Rows() []table.Row { return m.table.Rows() }

func (m Model) Init() tea.Cmd {
	return m.load(m.tab)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			return m.switchTab((m.tab + 1) % tabCount)
		case "shift+tab", "left", "h":
			return m.switchTab((m.tab + tabCount - 1) % tabCount)
		case "1", "2", "3":
			n, _ := strconv.Atoi(msg.String())
			return m.switchTab(Tab(n - 1))
		case "r":
			m.seq++
			m.loading = true
			m.status = "refreshing..."
			return m, m.refresh()
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		if msg.seq != m.seq || msg.tab != m.tab {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.table.SetRows(nil)
			m.summary = ""
			return m, nil
		}
		m.table.SetRows(msg.rows)
		m.table.GotoTop()
		m.summary = msg.summary
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.loading = false
			m.status = "refresh failed, showing previous snapshot"
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("refreshed %d rows from %s at %s",
			msg.result.Records, msg.result.Source, msg.result.LoadedAt.Format("15:04:05"))
		m.seq++
		return m, m.load(m.tab)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	m.seq++
	m.loading = true
	m.err = nil
	m.summary = ""
	// Rows must be cleared before the columns change so no row is rendered
	// against a shorter column set.
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(tab))
	return m, m.load(tab)
}

func (m Model) View() string {
	var b strings.Builder

	tabs := make([]string, 0, tabCount)
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d %s", int(i)+1, i)
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := titleStyle.Render("fantasy-trends")
	if m.username != "" {
		header += dimStyle.Render("  " + m.username)
	}
	b.WriteString(header + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n")
	case m.loading:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	default:
		b.WriteString(dimStyle.Render(m.summary) + "\n")
	}
	b.WriteString(m.table.View() + "\n")

	footer := "tab/1-3 switch  r refresh  up/down select  q quit"
	if m.status != "" {
		footer = m.status + "  |  " + footer
	}
	b.WriteString(dimStyle.Render(footer))
	return b.String()
}

// load fetches rows for tab, stamped with the model's current sequence.
func (m Model) load(tab Tab) tea.Cmd {
	source, seq := m.source, m.seq
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		rows, summary, err := loadRows(ctx, source, tab)
		return loadedMsg{seq: seq, tab: tab, rows: rows, summary: summary, err: err}
	}
}

func (m Model) refresh() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		result, err := source.Refresh(ctx)
		return refreshedMsg{result: result, err: err}
	}
}

func columnsFor(tab Tab) []table.Column {
	switch tab {
	case TabAlerts:
		return []table.Column{
			{Title: "Sev", Width: 8}, {Title: "Player", Width: 22}, {Title: "Pos", Width: 4}, {Title: "Team", Width: 5},
			{Title: "Start%", Width: 7}, {Title: "Chg", Width: 7}, {Title: "Mom", Width: 6},
		}
	case TabFavorites:
		return []table.Column{
			{Title: "#", Width: 3}, {Title: "Badge", Width: 6}, {Title: "Player", Width: 22}, {Title: "Pos", Width: 4},
			{Title: "Team", Width: 5}, {Title: "Start%", Width: 7}, {Title: "Inc", Width: 7}, {Title: "Level", Width: 8},
		}
	default:
		return []table.Column{
			{Title: "#", Width: 3}, {Title: "Player", Width: 22}, {Title: "Pos", Width: 4}, {Title: "Team", Width: 5},
			{Title: "Score", Width: 6}, {Title: "Tier", Width: 7}, {Title: "Rost%", Width: 7}, {Title: "Start%", Width: 7},
			{Title: "Chg", Width: 7},
		}
	}
}

func loadRows(ctx context.Context, source BoardSource, tab Tab) ([]table.Row, string, error) {
	switch tab {
	case TabAlerts:
		view, err := source.Alerts(ctx, trends.AlertsRequest{Latest: true, Limit: boardLimit})
		if err != nil {
			return nil, "", err
		}
		rows := make([]table.Row, len(view.Alerts))
		for i, r := range view.Alerts {
			d := derivedOf(r)
			rows[i] = table.Row{
				string(d.AlertSeverity), r.PlayerName, string(r.Position), r.Team,
				domain.FormatPercent(r.PercentStarted), domain.FormatChange(r.PercentStartedChange),
				fmt.Sprintf("%.1f", d.Momentum),
			}
		}
		summary := fmt.Sprintf("%d alerts: %d critical, %d high", view.Total,
			view.Severity[domain.SeverityCritical], view.Severity[domain.SeverityHigh])
		return rows, summary, nil

	case TabFavorites:
		view, err := source.Favorites(ctx, trends.FavoritesRequest{Latest: true, Limit: boardLimit})
		if err != nil {
			return nil, "", err
		}
		rows := make([]table.Row, len(view.Favorites))
		for i, f := range view.Favorites {
			r := f.Record
			rows[i] = table.Row{
				strconv.Itoa(f.Rank), f.Badge, r.PlayerName, string(r.Position), r.Team,
				domain.FormatPercent(r.PercentStarted), fmt.Sprintf("+%.1f", f.Increase), string(f.Level),
			}
		}
		summary := fmt.Sprintf("%d rising players, average increase %.1f%%, %d elite", view.Total, view.AverageIncrease, view.Elite)
		return rows, summary, nil

	default:
		view, err := source.Sleepers(ctx, trends.SleepersRequest{Latest: true, Limit: boardLimit})
		if err != nil {
			return nil, "", err
		}
		rows := make([]table.Row, len(view.Sleepers))
		for i, r := range view.Sleepers {
			d := derivedOf(r)
			rows[i] = table.Row{
				strconv.Itoa(i + 1), r.PlayerName, string(r.Position), r.Team,
				fmt.Sprintf("%.1f", d.SleeperScore), string(d.SleeperTier),
				domain.FormatPercent(r.PercentRostered), domain.FormatPercent(r.PercentStarted),
				domain.FormatChange(r.PercentStartedChange),
			}
		}
		summary := fmt.Sprintf("%d sleepers, %d high potential, average score %.1f", view.Total, view.HighPotential, view.AverageScore)
		return rows, summary, nil
	}
}

func derivedOf(r domain.TrendRecord) domain.Derived {
	if r.Derived == nil {
		return domain.Derived{}
	}
	return *r.Derived
}
