package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultHistoryWindow = 24 * time.Hour

// Refresher triggers out-of-band cycles.
type Refresher interface {
	Refresh()
	CycleID() uint64
}

type RefreshLimit struct {
	Burst  float64
	PerSec float64
}

// DashboardHandler serves the dashboard read API and the manual refresh trigger.
type DashboardHandler struct {
	logger  *xlogger.Logger
	dash    *usecase.Dashboard
	orch    Refresher
	limiter *ratelimit.Limiter
	limit   RefreshLimit
}

func NewDashboardHandler(logger *xlogger.Logger, dash *usecase.Dashboard, orch Refresher, limiter *ratelimit.Limiter, limit RefreshLimit) *DashboardHandler {
	return &DashboardHandler{logger: logger, dash: dash, orch: orch, limiter: limiter, limit: limit}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/snapshot", h.Snapshot)
	g.GET("/summary", h.Summary)
	g.GET("/summary/history", h.SummaryHistory)
	g.GET("/currencies", h.Currencies)
	g.GET("/crypto", h.Crypto)
	g.GET("/companies", h.Companies)
	g.GET("/news", h.News)
	g.POST("/refresh", h.Refresh)
}

func (h *DashboardHandler) Health(c echo.Context) error {
	snap := h.dash.Snapshot()
	body := map[string]interface{}{
		"cycleId":   snap.CycleID,
		"updatedAt": snap.UpdatedAt,
		"isLoading": snap.IsLoading,
		"sources":   snap.Sources,
	}
	if snap.ErrorMessage != "" {
		body["error"] = snap.ErrorMessage
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, body)
	}
	return xhttp.SuccessResponse(c, body)
}

func (h *DashboardHandler) Snapshot(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, h.dash.Snapshot())
}

func (h *DashboardHandler) Summary(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Summary())
}

func (h *DashboardHandler) SummaryHistory(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	now := time.Now()
	to := xhttp.ParseTimeDefault(req.To, now)
	from := xhttp.ParseTimeDefault(req.From, to.Add(-defaultHistoryWindow))

	points, err := h.dash.History(c.Request().Context(), from, to, req.Limit)
	if err != nil {
		return h.fail(c, "summary history", err)
	}
	return xhttp.ListResponse(c, points, int64(len(points)))
}

func (h *DashboardHandler) Currencies(c echo.Context) error {
	p, verr := listParams(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Currencies(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, "currencies", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Crypto(c echo.Context) error {
	p, verr := listParams(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Crypto(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, "crypto", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Companies(c echo.Context) error {
	p, verr := listParams(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Companies(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, "companies", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) News(c echo.Context) error {
	p, verr := listParams(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.News(c.Request().Context(), p)
	if err != nil {
		return h.fail(c, "news", err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Refresh starts a cycle in the background. Clients are limited per IP.
func (h *DashboardHandler) Refresh(c echo.Context) error {
	key := c.RealIP()
	if !h.limiter.Allow(key, h.limit.Burst, h.limit.PerSec) {
		if wait := h.limiter.RetryAfter(key); wait > 0 {
			secs := int(wait.Seconds())
			if time.Duration(secs)*time.Second < wait {
				secs++
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
		}
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("refresh rate limit exceeded"))
	}

	previous := h.orch.CycleID()
	h.orch.Refresh()
	return xhttp.AcceptedResponse(c, map[string]interface{}{"previousCycleId": previous})
}

func (h *DashboardHandler) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("%v", err))
	case errors.Is(err, usecase.ErrHistoryDisabled):
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError(err.Error()))
	}
	h.logger.Error(op+" usecase error", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("%s failed", op).WithError(err))
}

func listParams(c echo.Context) (usecase.ListParams, interface{}) {
	req := &models.ListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return usecase.ListParams{}, verr
	}
	return usecase.ListParams{
		Q:        req.Q,
		Sort:     req.Sort,
		Order:    req.Order,
		Limit:    req.Limit,
		Offset:   req.Offset,
		Sector:   req.Sector,
		Category: req.Category,
	}, nil
}
