package api

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	models "PairPulse/internal/domain/models"
	drepo "PairPulse/internal/domain/repository"
	"PairPulse/internal/service/ratelimit"
	"PairPulse/internal/services/analytics"
	"PairPulse/internal/usecase"
	pkgcache "PairPulse/pkg/cache"
	xhttp "PairPulse/pkg/http"
	xlogger "PairPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsEchoHandler exposes the analytics read side and the config
// surface over Echo. All reads come from immutable snapshots; handlers never
// touch the writer path.
type AnalyticsEchoHandler struct {
	logger    *xlogger.Logger
	engine    *analytics.Engine
	alerts    *usecase.AlertEngine
	cfg       drepo.ConfigStore
	cache     pkgcache.Service
	cacheTTL  time.Duration
	limiter   *ratelimit.Limiter
	connected func() bool
}

func NewAnalyticsEchoHandler(
	logger *xlogger.Logger,
	engine *analytics.Engine,
	alerts *usecase.AlertEngine,
	cfg drepo.ConfigStore,
	cache pkgcache.Service,
	cacheTTL time.Duration,
	connected func() bool,
) *AnalyticsEchoHandler {
	return &AnalyticsEchoHandler{
		logger:    logger,
		engine:    engine,
		alerts:    alerts,
		cfg:       cfg,
		cache:     cache,
		cacheTTL:  cacheTTL,
		limiter:   ratelimit.New(),
		connected: connected,
	}
}

func (h *AnalyticsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/analytics/latest", h.Latest)
	e.GET("/analytics/history", h.History)
	e.GET("/analytics/stats", h.Stats)
	e.GET("/analytics/stats/csv", h.StatsCSV)
	e.GET("/alerts/latest", h.LatestAlert)
	e.GET("/config", h.GetConfig)
	e.POST("/config", h.UpdateConfig)
}

func (h *AnalyticsEchoHandler) Health(c echo.Context) error {
	connected := false
	if h.connected != nil {
		connected = h.connected()
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":    "ok",
		"connected": connected,
	})
}

func (h *AnalyticsEchoHandler) Latest(c echo.Context) error {
	snap, ok := h.engine.Latest()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no metrics yet, pair is still cold"))
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *AnalyticsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"series": h.engine.History(req.Limit),
	})
}

func (h *AnalyticsEchoHandler) Stats(c echo.Context) error {
	req := &models.StatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows := h.statsRows(c, req.Limit)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *AnalyticsEchoHandler) StatsCSV(c echo.Context) error {
	if !h.limiter.Allow("csv:"+c.RealIP(), 5, 1) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "csv export rate limit exceeded")
	}

	rows := h.statsRows(c, xhttp.ParseIntDefault(c.QueryParam("limit"), 0))

	// optional export range, RFC3339 or unix seconds
	from := xhttp.ParseTimeDefault(c.QueryParam("from"), time.Time{})
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Time{})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"timestamp", "zscore", "spread", "correlation", "is_stationary", "alert"})
	for _, r := range rows {
		if !from.IsZero() && r.Timestamp < from.UnixMilli() {
			continue
		}
		if !to.IsZero() && r.Timestamp > to.UnixMilli() {
			continue
		}
		_ = w.Write([]string{
			time.UnixMilli(r.Timestamp).UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(r.ZScore, 'f', -1, 64),
			strconv.FormatFloat(r.Spread, 'f', -1, 64),
			strconv.FormatFloat(r.Correlation, 'f', -1, 64),
			strconv.FormatBool(r.IsStationary),
			string(r.Alert),
		})
	}
	w.Flush()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="analytics_stats.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// statsRows derives the tabular surface from history, newest first. The
// per-row alert classification applies the current config to the row's own
// z-score (regime filter first), so a config change reclassifies history on
// the next read.
func (h *AnalyticsEchoHandler) statsRows(c echo.Context, limit int) []models.StatsRow {
	key := "stats:" + strconv.Itoa(limit)
	if h.cache != nil {
		var cached []models.StatsRow
		if err := h.cache.Get(c.Request().Context(), key, &cached); err == nil {
			return cached
		}
	}

	cfg := h.cfg.Get()
	series := h.engine.History(limit)
	rows := make([]models.StatsRow, 0, len(series))
	for i := len(series) - 1; i >= 0; i-- {
		s := series[i]
		alert := models.SignalNone
		switch {
		case s.Correlation < cfg.MinCorrelation:
			// filtered by regime
		case s.ZScore >= cfg.EntryThreshold:
			alert = models.SignalShort
		case s.ZScore <= -cfg.EntryThreshold:
			alert = models.SignalLong
		}
		rows = append(rows, models.StatsRow{
			Timestamp:    s.Timestamp,
			ZScore:       s.ZScore,
			Spread:       s.Spread,
			Correlation:  s.Correlation,
			IsStationary: s.Stationary,
			Alert:        alert,
		})
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request().Context(), key, rows, h.cacheTTL); err != nil {
			h.logger.Warn("stats cache set failed", xlogger.Error(err))
		}
	}
	return rows
}

func (h *AnalyticsEchoHandler) LatestAlert(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.alerts.State())
}

func (h *AnalyticsEchoHandler) GetConfig(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.cfg.Get())
}

func (h *AnalyticsEchoHandler) UpdateConfig(c echo.Context) error {
	req := &models.ConfigUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	applied, err := h.cfg.Set(models.TradingConfig{
		EntryThreshold: req.EntryThreshold,
		ExitThreshold:  req.ExitThreshold,
		MinCorrelation: req.MinCorrelation,
		HedgeRatio:     req.HedgeRatio,
	})
	if err != nil {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_CONFIG_INVALID",
			Message: err.Error(),
		}})
	}

	h.logger.Info("trading config updated",
		xlogger.Any("entry", applied.EntryThreshold),
		xlogger.Any("exit", applied.ExitThreshold),
		xlogger.Any("min_correlation", applied.MinCorrelation),
	)
	if h.cache != nil {
		_ = h.cache.DeleteByPattern(c.Request().Context(), "stats:*")
	}
	return xhttp.SuccessResponse(c, applied)
}
