package main

import (
	"fmt"
	"strconv"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/trends"

	"github.com/spf13/cobra"
)

func newSleepersCmd(opts *options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "sleepers",
		Short: "List low-rostered players with rising start rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, criteria, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			view, err := svc.Sleepers(cmd.Context(), trends.SleepersRequest{
				Criteria: criteria, Mode: trends.SleeperMode(mode), Latest: !opts.allWeeks, Limit: opts.limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, view)
			}

			rows := make([][]string, len(view.Sleepers))
			for i, r := range view.Sleepers {
				d := derived(r)
				rows[i] = []string{
					strconv.Itoa(i + 1), r.PlayerName, string(r.Position), r.Team,
					fmt.Sprintf("%.1f", d.SleeperScore), string(d.SleeperTier),
					domain.FormatPercent(r.PercentRostered), domain.FormatPercent(r.PercentStarted),
					domain.FormatChange(r.PercentStartedChange),
				}
			}
			fmt.Fprintf(out, "%d sleepers (%d high potential), average score %.1f\n", view.Total, view.HighPotential, view.AverageScore)
			return renderTable(out, []string{"#", "Player", "Pos", "Team", "Score", "Tier", "Rostered", "Started", "Change"}, rows)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(trends.SleeperBalanced), "sleeper preset: high_started, started_trending or balanced")
	return cmd
}

func newAlertsCmd(opts *options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List players whose start rate moved sharply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, criteria, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			view, err := svc.Alerts(cmd.Context(), trends.AlertsRequest{
				Criteria: criteria, Mode: trends.AlertMode(mode), Latest: !opts.allWeeks, Limit: opts.limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, view)
			}

			rows := make([][]string, len(view.Alerts))
			for i, r := range view.Alerts {
				d := derived(r)
				rows[i] = []string{
					string(d.AlertSeverity), r.PlayerName, string(r.Position), r.Team,
					domain.FormatPercent(r.PercentStarted), domain.FormatChange(r.PercentStartedChange),
					fmt.Sprintf("%.1f", d.Momentum), fmt.Sprintf("%.1f", d.Volatility),
				}
			}
			fmt.Fprintf(out, "%d alerts: %d critical, %d high, %d medium\n", view.Total,
				view.Severity[domain.SeverityCritical], view.Severity[domain.SeverityHigh], view.Severity[domain.SeverityMedium])
			return renderTable(out, []string{"Severity", "Player", "Pos", "Team", "Started", "Change", "Momentum", "Volatility"}, rows)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(trends.AlertByChange),
		"ranking: started_change, started_absolute, started_volatility or started_momentum")
	return cmd
}

func newFavoritesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "Rank the biggest week-over-week start increases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, criteria, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			view, err := svc.Favorites(cmd.Context(), trends.FavoritesRequest{
				Criteria: criteria, Latest: !opts.allWeeks, Limit: opts.limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, view)
			}

			rows := make([][]string, len(view.Favorites))
			for i, f := range view.Favorites {
				r := f.Record
				rows[i] = []string{
					strconv.Itoa(f.Rank), f.Badge, r.PlayerName, string(r.Position), r.Team,
					domain.FormatPercent(r.PercentStarted), fmt.Sprintf("+%.1f", f.Increase), string(f.Level),
				}
			}
			fmt.Fprintf(out, "%d rising players, average increase %.1f%%\n", view.Total, view.AverageIncrease)
			return renderTable(out, []string{"#", "Badge", "Player", "Pos", "Team", "Started", "Increase", "Level"}, rows)
		},
	}
}

func newPlayersCmd(opts *options) *cobra.Command {
	var sortKey, order string
	cmd := &cobra.Command{
		Use:   "players",
		Short: "List players matching the criteria",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := trends.ParseDirection(order)
			if err != nil {
				return err
			}
			svc, criteria, err := prepare(cmd, opts)
			if err != nil {
				return err
			}
			view, err := svc.Players(cmd.Context(), trends.PlayersRequest{
				Criteria: criteria, SortKey: sortKey, Direction: dir, Limit: opts.limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, view)
			}

			rows := make([][]string, len(view.Players))
			for i, r := range view.Players {
				rows[i] = []string{
					r.PlayerName, string(r.Position), r.Team, strconv.Itoa(r.Week),
					domain.FormatPercent(r.PercentRostered), domain.FormatPercent(r.PercentStarted),
					domain.FormatChange(r.PercentStartedChange), strconv.Itoa(r.Adds), strconv.Itoa(r.Drops),
				}
			}
			fmt.Fprintf(out, "%d of %d players\n", view.FilteredPlayers, view.TotalPlayers)
			return renderTable(out, []string{"Player", "Pos", "Team", "Week", "Rostered", "Started", "Change", "Adds", "Drops"}, rows)
		},
	}
	cmd.Flags().StringVar(&sortKey, "sort", "percent_started", "sort key")
	cmd.Flags().StringVar(&order, "order", "desc", "sort direction: asc or desc")
	return cmd
}

func derived(r domain.TrendRecord) domain.Derived {
	if r.Derived == nil {
		return domain.Derived{}
	}
	return *r.Derived
}
