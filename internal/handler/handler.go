package handler

import (
	"context"

	"fantasy-trends/internal/service"
	"fantasy-trends/internal/trends"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

// TrendQuerier is the slice of the trend service the HTTP API needs.
type TrendQuerier interface {
	Options(ctx context.Context) (trends.Options, error)
	Players(ctx context.Context, req trends.PlayersRequest) (trends.PlayersView, error)
	Alerts(ctx context.Context, req trends.AlertsRequest) (trends.AlertsView, error)
	Sleepers(ctx context.Context, req trends.SleepersRequest) (trends.SleepersView, error)
	Favorites(ctx context.Context, req trends.FavoritesRequest) (trends.FavoritesView, error)
	Dashboard(ctx context.Context, week int) (trends.DashboardView, error)
	Compare(ctx context.Context, req trends.CompareRequest) (trends.CompareView, error)
	PlayerHistory(ctx context.Context, playerID string) (trends.PlayerDetail, error)
	Refresh(ctx context.Context) (service.RefreshResult, error)
	Status() service.Status
}

type Handler struct {
	tracer         trace.Tracer
	trendService   TrendQuerier
	refreshLimiter gin.HandlerFunc
}

func New(tracer trace.Tracer, trendService TrendQuerier, refreshPerMin int) *Handler {
	return &Handler{
		tracer:         tracer,
		trendService:   trendService,
		refreshLimiter: ClientRateLimit(refreshPerMin),
	}
}

// RegisterRoutes mounts the API. /health and /metrics stay open; everything
// under /api requires the key when one is configured.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/status", h.GetStatus)
	api.GET("/options", h.GetOptions)
	api.GET("/players", h.ListPlayers)
	api.GET("/players/:id/history", h.GetPlayerHistory)
	api.GET("/alerts", h.ListAlerts)
	api.GET("/sleepers", h.ListSleepers)
	api.GET("/favorites", h.ListFavorites)
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/compare", h.CompareTeams)
	api.POST("/refresh", h.refreshLimiter, h.TriggerRefresh)
}
