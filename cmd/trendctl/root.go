package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fantasy-trends/internal/config"
	"fantasy-trends/internal/db"
	"fantasy-trends/internal/provider"
	"fantasy-trends/internal/service"
	"fantasy-trends/internal/trends"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"
)

const defaultLimit = 20

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	// newServiceFunc builds a loaded trend service; tests swap it.
	newServiceFunc = newService
)

type options struct {
	demo         bool
	criteriaPath string
	limit        int
	allWeeks     bool
	jsonOut      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "trendctl",
		Short: "Query NFL fantasy trend views",
		Long: `trendctl loads the current trend snapshot and prints one view as a table.

Examples:
  trendctl sleepers --demo                  # Sleepers from the built-in demo season
  trendctl alerts --mode started_momentum   # Alerts ranked by momentum
  trendctl players --criteria te.yaml       # Players matching a criteria file
  trendctl favorites --json                 # Favorites as JSON`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&opts.demo, "demo", false, "use the built-in demo season instead of the configured source")
	root.PersistentFlags().StringVar(&opts.criteriaPath, "criteria", "", "YAML file of filter criteria")
	root.PersistentFlags().IntVar(&opts.limit, "limit", defaultLimit, "maximum rows to print")
	root.PersistentFlags().BoolVar(&opts.allWeeks, "all-weeks", false, "include every week instead of only the latest")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print the view as JSON")

	root.AddCommand(
		newSleepersCmd(opts),
		newAlertsCmd(opts),
		newFavoritesCmd(opts),
		newPlayersCmd(opts),
	)
	return root
}

// prepare loads the criteria file and a refreshed service for one command.
func prepare(cmd *cobra.Command, opts *options) (*service.TrendService, trends.Criteria, error) {
	criteria, err := loadCriteria(opts.criteriaPath)
	if err != nil {
		return nil, trends.Criteria{}, err
	}
	svc, err := newServiceFunc(cmd.Context(), opts.demo)
	if err != nil {
		return nil, trends.Criteria{}, err
	}
	return svc, criteria, nil
}

func newService(ctx context.Context, demo bool) (*service.TrendService, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := otel.Tracer("trendctl")

	cfg := &config.Config{TrendSource: config.SourceDemo}
	if !demo {
		loadEnvFunc()
		cfg = loadConfigFunc()
		if cfg.TrendSource == config.SourcePostgres {
			os.Setenv("DATABASE_URL", cfg.DatabaseURL)
			if err := db.InitPostgres(ctx); err != nil {
				return nil, err
			}
		}
	}

	source, err := provider.ForConfig(cfg, tracer, db.Pool)
	if err != nil {
		return nil, err
	}
	svc := service.NewTrendService(tracer, source, nil, nil, time.Minute)
	if _, err := svc.Refresh(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// loadCriteria reads a criteria file. Unknown keys are rejected the same way
// the HTTP API rejects unknown query parameters.
func loadCriteria(path string) (trends.Criteria, error) {
	var c trends.Criteria
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read criteria: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("parse criteria %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
