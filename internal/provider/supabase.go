package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/trends"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	SupabaseSourceName   = "supabase"
	defaultSupabaseTable = "nfl_fantasy_trends"
	defaultPageSize      = 1000
)

// SupabaseProvider reads trend rows through the PostgREST API of a Supabase project.
type SupabaseProvider struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	table    string
	pageSize int
	tracer   trace.Tracer
	limiter  *RateLimiter
}

// NewSupabaseProvider creates a provider with built-in rate limiting.
// Rate limited to 30 requests per second.
func NewSupabaseProvider(tracer trace.Tracer, baseURL, apiKey, table string, pageSize int) *SupabaseProvider {
	if table == "" {
		table = defaultSupabaseTable
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &SupabaseProvider{
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		table:    table,
		pageSize: pageSize,
		tracer:   tracer,
		limiter:  NewRateLimiter(30, time.Second/30),
	}
}

func (p *SupabaseProvider) Name() string { return SupabaseSourceName }

// FetchAll pages through the whole table, newest rows first. The server may
// cap a page below the requested limit, so the offset advances by the rows
// actually received and paging ends on an empty page or the reported total.
func (p *SupabaseProvider) FetchAll(ctx context.Context) ([]domain.TrendRecord, error) {
	ctx, span := p.tracer.Start(ctx, "supabase.fetch-all")
	defer span.End()

	var out []domain.TrendRecord
	total := -1
	for {
		q := url.Values{}
		q.Set("select", "*")
		q.Set("order", "scraped_at.desc,player_id.asc")
		q.Set("limit", strconv.Itoa(p.pageSize))
		q.Set("offset", strconv.Itoa(len(out)))

		page, pageTotal, err := p.fetchRows(ctx, "fetch_all", q, true)
		if err != nil {
			return nil, err
		}
		if pageTotal >= 0 {
			total = pageTotal
		}
		out = append(out, page...)
		if len(page) == 0 || (total >= 0 && len(out) >= total) {
			break
		}
	}
	if total >= 0 && len(out) != total {
		return nil, trends.NewDataFetchError(SupabaseSourceName, "fetch_all",
			fmt.Errorf("fetched %d of %d rows", len(out), total))
	}
	span.SetAttributes(attribute.Int("rows", len(out)))
	return out, nil
}

// FetchHistory returns every row for one player, oldest first.
func (p *SupabaseProvider) FetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error) {
	ctx, span := p.tracer.Start(ctx, "supabase.fetch-history")
	defer span.End()
	span.SetAttributes(attribute.String("player_id", playerID))

	if strings.TrimSpace(playerID) == "" {
		return nil, trends.NewDataFetchError(SupabaseSourceName, "fetch_history", trends.ErrEmptyPlayerID)
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("player_id", "eq."+playerID)
	q.Set("order", "scraped_at.asc")
	rows, _, err := p.fetchRows(ctx, "fetch_history", q, false)
	return rows, err
}

// fetchRows decodes one response. When count is set it also returns the table
// total reported in Content-Range, or -1 when the server did not report one.
func (p *SupabaseProvider) fetchRows(ctx context.Context, op string, q url.Values, count bool) ([]domain.TrendRecord, int, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", p.baseURL, p.table, q.Encode())
	body, header, err := p.doRequest(ctx, endpoint, count)
	if err != nil {
		return nil, -1, trends.NewDataFetchError(SupabaseSourceName, op, err)
	}
	total := -1
	if count {
		if total, err = contentRangeTotal(header.Get("Content-Range")); err != nil {
			return nil, -1, trends.NewDataFetchError(SupabaseSourceName, op, err)
		}
	}

	var rows []supabaseRow
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, -1, trends.NewDataFetchError(SupabaseSourceName, op, fmt.Errorf("parse rows: %w", err))
	}

	out := make([]domain.TrendRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, -1, trends.NewDataFetchError(SupabaseSourceName, op, fmt.Errorf("row %d: %w", i, err))
		}
		out = append(out, rec)
	}
	return out, total, nil
}

// contentRangeTotal reads the total from a PostgREST Content-Range header such
// as "0-999/4210" or "*/0". A missing header or "*" total yields -1.
func contentRangeTotal(h string) (int, error) {
	if h == "" {
		return -1, nil
	}
	i := strings.LastIndexByte(h, '/')
	if i < 0 {
		return -1, fmt.Errorf("malformed Content-Range %q", h)
	}
	if h[i+1:] == "*" {
		return -1, nil
	}
	total, err := strconv.Atoi(h[i+1:])
	if err != nil || total < 0 {
		return -1, fmt.Errorf("malformed Content-Range %q", h)
	}
	return total, nil
}

func (p *SupabaseProvider) doRequest(ctx context.Context, endpoint string, count bool) ([]byte, http.Header, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	if count {
		req.Header.Set("Prefer", "count=exact")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	// PostgREST answers 206 when a counted range covers part of the table.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("supabase API error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	return body, resp.Header, err
}

// supabaseRow mirrors the nfl_fantasy_trends columns. Numeric columns arrive
// as JSON numbers, numeric strings, or null depending on the column type.
type supabaseRow struct {
	PlayerID              json.RawMessage `json:"player_id"`
	PlayerName            string          `json:"player_name"`
	Position              string          `json:"position"`
	Team                  string          `json:"team"`
	Opponent              string          `json:"opponent"`
	Semana                json.RawMessage `json:"semana"`
	ScrapedAt             string          `json:"scraped_at"`
	PercentRostered       json.RawMessage `json:"percent_rostered"`
	PercentStarted        json.RawMessage `json:"percent_started"`
	PercentRosteredChange json.RawMessage `json:"percent_rostered_change"`
	PercentStartedChange  json.RawMessage `json:"percent_started_change"`
	Adds                  json.RawMessage `json:"adds"`
	Drops                 json.RawMessage `json:"drops"`
}

func (row supabaseRow) toRecord() (domain.TrendRecord, error) {
	id, err := rawString(row.PlayerID)
	if err != nil {
		return domain.TrendRecord{}, fmt.Errorf("player_id: %w", err)
	}
	if id == "" {
		return domain.TrendRecord{}, trends.ErrEmptyPlayerID
	}
	scraped, err := ParseTimestamp(row.ScrapedAt)
	if err != nil {
		return domain.TrendRecord{}, fmt.Errorf("scraped_at: %w", err)
	}

	rec := domain.TrendRecord{
		PlayerID:   id,
		PlayerName: row.PlayerName,
		Position:   NormalizePosition(row.Position),
		Team:       strings.ToUpper(strings.TrimSpace(row.Team)),
		Opponent:   strings.TrimSpace(row.Opponent),
		ScrapedAt:  scraped,
	}
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  **float64
	}{
		{"percent_rostered", row.PercentRostered, &rec.PercentRostered},
		{"percent_started", row.PercentStarted, &rec.PercentStarted},
		{"percent_rostered_change", row.PercentRosteredChange, &rec.PercentRosteredChange},
		{"percent_started_change", row.PercentStartedChange, &rec.PercentStartedChange},
	}
	for _, f := range fields {
		v, err := rawFloat(f.raw)
		if err != nil {
			return domain.TrendRecord{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	week, err := rawFloat(row.Semana)
	if err != nil {
		return domain.TrendRecord{}, fmt.Errorf("semana: %w", err)
	}
	adds, err := rawFloat(row.Adds)
	if err != nil {
		return domain.TrendRecord{}, fmt.Errorf("adds: %w", err)
	}
	drops, err := rawFloat(row.Drops)
	if err != nil {
		return domain.TrendRecord{}, fmt.Errorf("drops: %w", err)
	}
	rec.Week = int(domain.Num(week))
	rec.Adds = int(domain.Num(adds))
	rec.Drops = int(domain.Num(drops))
	return rec, nil
}

// NormalizePosition upper-cases a raw position and folds defense aliases into DST.
// Unknown values are kept as given so filters can still match them.
func NormalizePosition(raw string) domain.Position {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if p, ok := domain.ParsePosition(raw); ok {
		return p
	}
	return domain.Position(raw)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp shapes PostgREST emits for timestamp and
// timestamptz columns. Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func rawString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func rawFloat(raw json.RawMessage) (*float64, error) {
	s, err := rawString(raw)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}
