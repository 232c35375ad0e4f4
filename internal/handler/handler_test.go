package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fantasy-trends/internal/domain"
	"fantasy-trends/internal/provider"
	"fantasy-trends/internal/service"
	"fantasy-trends/internal/trends"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("handler-test")

func newTestRouter(t *testing.T, svc TrendQuerier, apiKey string, refreshPerMin int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(testTracer, svc, refreshPerMin).RegisterRoutes(r, apiKey)
	return r
}

func demoService(t *testing.T, refreshed bool) *service.TrendService {
	t.Helper()
	svc := service.NewTrendService(testTracer, provider.NewDemoProvider(testTracer), nil, nil, 0)
	if refreshed {
		if _, err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh: %v", err)
		}
	}
	return svc
}

func do(r http.Handler, method, target string, header ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("parse error: %v (body %s)", err, w.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, demoService(t, false), "", 0)

	w := do(r, http.MethodGet, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if body != "{\"status\":\"healthy\"}\n" && body != "{\"status\":\"healthy\"}" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, demoService(t, false), "secret", 0)
	if w := do(r, http.MethodGet, "/metrics"); w.Code != http.StatusOK {
		t.Fatalf("expected 200 without API key, got %d", w.Code)
	}
}

func TestViewsBeforeRefresh(t *testing.T) {
	r := newTestRouter(t, demoService(t, false), "", 0)

	for _, path := range []string{"/api/options", "/api/players", "/api/alerts", "/api/sleepers", "/api/favorites", "/api/dashboard"} {
		if w := do(r, http.MethodGet, path); w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, w.Code)
		}
	}
	st := decode[service.Status](t, do(r, http.MethodGet, "/api/status"))
	if st.Loaded || st.Source != provider.DemoSourceName {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestListPlayers(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	w := do(r, http.MethodGet, "/api/players?position=qb&sort=percent_started&direction=asc")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	view := decode[trends.PlayersView](t, w)
	if view.TotalPlayers != 20 || view.FilteredPlayers != 3 {
		t.Fatalf("expected 20 total and 3 QBs, got %d/%d", view.TotalPlayers, view.FilteredPlayers)
	}
	// Lamar 72.4, Mahomes 83.9, Allen 85.2
	if view.Players[0].PlayerName != "Lamar Jackson" || view.Players[2].PlayerName != "Josh Allen" {
		t.Fatalf("unexpected order: %s .. %s", view.Players[0].PlayerName, view.Players[2].PlayerName)
	}
	for _, p := range view.Players {
		if p.Week != 3 {
			t.Fatalf("expected latest week rows, got week %d", p.Week)
		}
	}

	limited := decode[trends.PlayersView](t, do(r, http.MethodGet, "/api/players?limit=5"))
	if len(limited.Players) != 5 || limited.FilteredPlayers != 20 {
		t.Fatalf("expected 5 of 20, got %d of %d", len(limited.Players), limited.FilteredPlayers)
	}
}

func TestInvalidCriteriaIsBadRequest(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	for _, path := range []string{
		"/api/players?bogus=1",
		"/api/players?direction=sideways",
		"/api/players?sort=shoe_size",
		"/api/players?limit=-2",
		"/api/players?min_percent_rostered=10&max_percent_rostered=5",
		"/api/alerts?mode=loudest",
		"/api/alerts?latest=maybe",
		"/api/sleepers?mode=deep",
		"/api/favorites?severity=scary",
		"/api/dashboard?week=first",
		"/api/dashboard?position=QB",
		"/api/compare?team_a=BUF&team_b=BUF",
		"/api/compare?team_a=BUF",
	} {
		w := do(r, http.MethodGet, path)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}

func TestListAlertsSleepersFavorites(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	alerts := decode[trends.AlertsView](t, do(r, http.MethodGet, "/api/alerts?severity=critical"))
	// Kupp 15.3, Lamar 18.6, Kittle 13.9 is high, Andrews 16.2
	if alerts.Total != 3 {
		t.Fatalf("expected 3 critical alerts, got %d", alerts.Total)
	}
	if alerts.Alerts[0].PlayerName != "Lamar Jackson" {
		t.Fatalf("expected Lamar first, got %s", alerts.Alerts[0].PlayerName)
	}

	w := do(r, http.MethodGet, "/api/sleepers?mode=started_trending")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	sleepers := decode[trends.SleepersView](t, w)
	if sleepers.Mode != trends.SleeperStartedTrending {
		t.Fatalf("unexpected mode %s", sleepers.Mode)
	}
	for _, s := range sleepers.Sleepers {
		if domain.Num(s.PercentRostered) > trends.DefaultSleeperMaxRostered {
			t.Fatalf("%s is above the roster cap", s.PlayerName)
		}
	}

	favs := decode[trends.FavoritesView](t, do(r, http.MethodGet, "/api/favorites?position=TE"))
	// Jake Bates is the only falling player and is a kicker.
	if favs.Total != 4 {
		t.Fatalf("expected 4 rising tight ends, got %d", favs.Total)
	}
	if favs.Favorites[0].Record.PlayerName != "Mark Andrews" || favs.Favorites[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", favs.Favorites[0])
	}
}

func TestGetDashboard(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	w := do(r, http.MethodGet, "/api/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Week     int `json:"week"`
		Players  int `json:"players"`
		Insights struct {
			Week   int      `json:"week"`
			Alerts []string `json:"alerts"`
		} `json:"insights"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if body.Week != 3 || body.Players != 20 || body.Insights.Week != 3 || len(body.Insights.Alerts) == 0 {
		t.Fatalf("unexpected dashboard: %+v", body)
	}

	first := decode[trends.DashboardView](t, do(r, http.MethodGet, "/api/dashboard?week=1"))
	if first.Week != 1 || first.Players != 20 {
		t.Fatalf("unexpected week 1 dashboard: week=%d players=%d", first.Week, first.Players)
	}
}

func TestCompareTeams(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	w := do(r, http.MethodGet, "/api/compare?team_a=buf&team_b=KC&sort=player_name&direction=asc")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	view := decode[trends.CompareView](t, w)
	if view.A.Team != "BUF" || view.A.Count != 2 || view.B.Count != 2 {
		t.Fatalf("unexpected sides: %+v / %+v", view.A, view.B)
	}
	if view.A.Players[0].PlayerName != "Josh Allen" {
		t.Fatalf("expected alphabetical order, got %s", view.A.Players[0].PlayerName)
	}
}

func TestGetPlayerHistory(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	w := do(r, http.MethodGet, "/api/players/sample_0/history")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	detail := decode[trends.PlayerDetail](t, w)
	if detail.PlayerName != "Josh Allen" || len(detail.History) != 3 {
		t.Fatalf("unexpected detail: %s with %d rows", detail.PlayerName, len(detail.History))
	}
	if detail.RangeDirection != domain.RangeUp {
		t.Fatalf("expected upward range, got %s", detail.RangeDirection)
	}
}

func TestTriggerRefresh(t *testing.T) {
	r := newTestRouter(t, demoService(t, false), "", 1)

	w := do(r, http.MethodPost, "/api/refresh")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decode[service.RefreshResult](t, w)
	if res.Records != 60 || res.Players != 20 || res.Source != provider.DemoSourceName {
		t.Fatalf("unexpected result: %+v", res)
	}

	w = do(r, http.MethodPost, "/api/refresh")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestTriggerRefreshSourceFailure(t *testing.T) {
	svc := service.NewTrendService(testTracer, failingSource{}, nil, nil, 0)
	r := newTestRouter(t, svc, "", 0)

	w := do(r, http.MethodPost, "/api/refresh")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	st := decode[service.Status](t, do(r, http.MethodGet, "/api/status"))
	if st.LastError == "" {
		t.Fatal("expected last error in status")
	}
	if w := do(r, http.MethodGet, "/api/players/p1/history"); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for history, got %d", w.Code)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "secret", 0)

	if w := do(r, http.MethodGet, "/api/options"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/options", "X-API-Key", "nope"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	w := do(r, http.MethodGet, "/api/options", "X-API-Key", "secret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	opts := decode[trends.Options](t, w)
	if opts.LatestWeek != 3 || len(opts.Weeks) != 3 || opts.Weeks[0] != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestWriteErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{&trends.InvalidCriteriaError{Key: "x", Reason: "bad"}, http.StatusBadRequest},
		{trends.ErrEmptyPlayerID, http.StatusBadRequest},
		{trends.ErrNoSnapshot, http.StatusServiceUnavailable},
		{trends.NewDataFetchError("demo", "fetch_all", errors.New("boom")), http.StatusBadGateway},
		{trends.NewDataFetchError("supabase", "fetch_all", trends.ErrEmptyPlayerID), http.StatusBadGateway},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeError(c, tc.err)
		if w.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}

func TestGetPlayerHistoryBlankID(t *testing.T) {
	r := newTestRouter(t, demoService(t, true), "", 0)

	w := do(r, http.MethodGet, "/api/players/%20/history")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a blank player id, got %d: %s", w.Code, w.Body.String())
	}
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }

func (failingSource) FetchAll(ctx context.Context) ([]domain.TrendRecord, error) {
	return nil, errors.New("connection refused")
}

func (failingSource) FetchHistory(ctx context.Context, playerID string) ([]domain.TrendRecord, error) {
	return nil, errors.New("connection refused")
}
