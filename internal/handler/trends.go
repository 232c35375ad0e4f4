package handler

import (
	"net/http"
	"net/url"
	"strings"

	"fantasy-trends/internal/insight"
	"fantasy-trends/internal/trends"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// DashboardResponse is a week dashboard with its rule-based insights.
type DashboardResponse struct {
	trends.DashboardView
	Insights insight.Report `json:"insights"`
}

// GetOptions godoc
// @Summary      Filter options
// @Description  Distinct teams, weeks (newest first) and positions in the current snapshot
// @Tags         trends
// @Produce      json
// @Success      200  {object}  trends.Options
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/options [get]
func (h *Handler) GetOptions(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-options")
	defer span.End()

	opts, err := h.trendService.Options(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// ListPlayers godoc
// @Summary      List players
// @Description  Current record per player after filtering, sorted by any record field
// @Tags         trends
// @Produce      json
// @Param        position   query  string  false  "QB, RB, WR, TE, K, DST or all"
// @Param        team       query  string  false  "Team code or all"
// @Param        week       query  int     false  "Week number"
// @Param        search     query  string  false  "Case-insensitive player name substring"
// @Param        sort       query  string  false  "Sort key"  default(percent_rostered)
// @Param        direction  query  string  false  "asc or desc"  default(desc)
// @Param        limit      query  int     false  "Maximum rows"
// @Success      200  {object}  trends.PlayersView
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/players [get]
func (h *Handler) ListPlayers(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-players")
	defer span.End()

	q := c.Request.URL.Query()
	criteria, err := trends.ParseCriteria(q, "sort", "direction", "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	dir, err := trends.ParseDirection(q.Get("direction"))
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := parseLimit(q)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.trendService.Players(ctx, trends.PlayersRequest{
		Criteria:  criteria,
		SortKey:   q.Get("sort"),
		Direction: dir,
		Limit:     limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetPlayerHistory godoc
// @Summary      Player history
// @Description  Full history of one player, oldest first, with range metrics
// @Tags         trends
// @Produce      json
// @Param        id  path  string  true  "Player id"
// @Success      200  {object}  trends.PlayerDetail
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/players/{id}/history [get]
func (h *Handler) GetPlayerHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-player-history")
	defer span.End()

	id := strings.TrimSpace(c.Param("id"))
	span.SetAttributes(attribute.String("player_id", id))

	detail, err := h.trendService.PlayerHistory(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListAlerts godoc
// @Summary      Start-share alerts
// @Description  Players ranked by started change, started share, volatility or momentum
// @Tags         trends
// @Produce      json
// @Param        mode      query  string  false  "started_change, started_absolute, started_volatility or started_momentum"
// @Param        severity  query  string  false  "critical, high, medium, low or all"
// @Param        position  query  string  false  "Position filter"
// @Param        latest    query  bool    false  "Collapse to each player's latest record"  default(true)
// @Param        limit     query  int     false  "Maximum rows"  default(50)
// @Success      200  {object}  trends.AlertsView
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/alerts [get]
func (h *Handler) ListAlerts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-alerts")
	defer span.End()

	q := c.Request.URL.Query()
	criteria, latest, limit, err := parseViewQuery(q, "mode")
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.trendService.Alerts(ctx, trends.AlertsRequest{
		Criteria: criteria,
		Mode:     trends.AlertMode(strings.ToLower(q.Get("mode"))),
		Latest:   latest,
		Limit:    limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListSleepers godoc
// @Summary      Sleepers
// @Description  Low-rostered players with a positive sleeper score, best first
// @Tags         trends
// @Produce      json
// @Param        mode                  query  string  false  "high_started, started_trending or balanced"
// @Param        max_percent_rostered  query  number  false  "Roster share cap"  default(50)
// @Param        position              query  string  false  "Position filter"
// @Param        sleeper_tier          query  string  false  "elite, high, medium, low or all"
// @Param        latest                query  bool    false  "Collapse to each player's latest record"  default(true)
// @Param        limit                 query  int     false  "Maximum rows"
// @Success      200  {object}  trends.SleepersView
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/sleepers [get]
func (h *Handler) ListSleepers(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-sleepers")
	defer span.End()

	q := c.Request.URL.Query()
	criteria, latest, limit, err := parseViewQuery(q, "mode")
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.trendService.Sleepers(ctx, trends.SleepersRequest{
		Criteria: criteria,
		Mode:     trends.SleeperMode(strings.ToLower(q.Get("mode"))),
		Latest:   latest,
		Limit:    limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListFavorites godoc
// @Summary      Favorites
// @Description  Players whose started share rose, ranked with badges and increase levels
// @Tags         trends
// @Produce      json
// @Param        position  query  string  false  "Position filter"
// @Param        latest    query  bool    false  "Collapse to each player's latest record"  default(true)
// @Param        limit     query  int     false  "Maximum rows"
// @Success      200  {object}  trends.FavoritesView
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/favorites [get]
func (h *Handler) ListFavorites(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-favorites")
	defer span.End()

	criteria, latest, limit, err := parseViewQuery(c.Request.URL.Query())
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := h.trendService.Favorites(ctx, trends.FavoritesRequest{
		Criteria: criteria,
		Latest:   latest,
		Limit:    limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDashboard godoc
// @Summary      Week dashboard
// @Description  Highlights, position averages, activity and insights for one week
// @Tags         trends
// @Produce      json
// @Param        week  query  int  false  "Week number; latest when omitted"
// @Success      200  {object}  DashboardResponse
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-dashboard")
	defer span.End()

	q := c.Request.URL.Query()
	if err := onlyKeys(q, "week"); err != nil {
		writeError(c, err)
		return
	}
	week, err := parseWeek(q)
	if err != nil {
		writeError(c, err)
		return
	}

	view, err := h.trendService.Dashboard(ctx, week)
	if err != nil {
		writeError(c, err)
		return
	}
	span.SetAttributes(attribute.Int("week", view.Week))
	c.JSON(http.StatusOK, DashboardResponse{DashboardView: view, Insights: insight.Build(view)})
}

// CompareTeams godoc
// @Summary      Compare two teams
// @Description  Current players of two teams side by side
// @Tags         trends
// @Produce      json
// @Param        team_a     query  string  true   "First team code"
// @Param        team_b     query  string  true   "Second team code"
// @Param        position   query  string  false  "Position filter"
// @Param        sort       query  string  false  "player_name, percent_rostered, percent_started, adds or drops"
// @Param        direction  query  string  false  "asc or desc"
// @Success      200  {object}  trends.CompareView
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/compare [get]
func (h *Handler) CompareTeams(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.compare-teams")
	defer span.End()

	q := c.Request.URL.Query()
	criteria, err := trends.ParseCriteria(q, "team_a", "team_b", "sort", "direction")
	if err != nil {
		writeError(c, err)
		return
	}
	dir, err := trends.ParseDirection(q.Get("direction"))
	if err != nil {
		writeError(c, err)
		return
	}
	span.SetAttributes(attribute.String("team_a", q.Get("team_a")), attribute.String("team_b", q.Get("team_b")))

	view, err := h.trendService.Compare(ctx, trends.CompareRequest{
		TeamA:     q.Get("team_a"),
		TeamB:     q.Get("team_b"),
		Criteria:  criteria,
		SortKey:   q.Get("sort"),
		Direction: dir,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TriggerRefresh godoc
// @Summary      Refresh the snapshot
// @Description  Fetches a new snapshot from the configured source. Concurrent calls share one fetch.
// @Tags         trends
// @Produce      json
// @Success      200  {object}  service.RefreshResult
// @Failure      429  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/refresh [post]
func (h *Handler) TriggerRefresh(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trigger-refresh")
	defer span.End()

	result, err := h.trendService.Refresh(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseViewQuery reads criteria plus the shared latest and limit options.
func parseViewQuery(q url.Values, extra ...string) (trends.Criteria, bool, int, error) {
	criteria, err := trends.ParseCriteria(q, append(extra, "latest", "limit")...)
	if err != nil {
		return trends.Criteria{}, false, 0, err
	}
	latest, err := parseLatest(q)
	if err != nil {
		return trends.Criteria{}, false, 0, err
	}
	limit, err := parseLimit(q)
	if err != nil {
		return trends.Criteria{}, false, 0, err
	}
	return criteria, latest, limit, nil
}
