package api

import (
	"errors"
	"time"

	"PegGuard/internal/actuarial"
	"PegGuard/internal/domain/models"
	"PegGuard/internal/usecase"
	xhttp "PegGuard/pkg/http"
	xlogger "PegGuard/pkg/logger"
	"PegGuard/pkg/util"

	"github.com/labstack/echo/v4"
)

// QuotesEchoHandler exposes pricing over Echo-based HTTP handlers.
type QuotesEchoHandler struct {
	logger  *xlogger.Logger
	quotes  *usecase.QuoteService
	monitor *usecase.RegimeMonitor
}

func NewQuotesEchoHandler(logger *xlogger.Logger, quotes *usecase.QuoteService, monitor *usecase.RegimeMonitor) *QuotesEchoHandler {
	return &QuotesEchoHandler{logger: logger, quotes: quotes, monitor: monitor}
}

func (h *QuotesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/quote", h.Quote)
	g.GET("/regime", h.Regime)
	g.GET("/curves", h.Curves)
	g.GET("/curves/:id", h.Curve)
	g.GET("/quotes/recent", h.RecentQuotes)
}

func (h *QuotesEchoHandler) Quote(c echo.Context) error {
	req := &models.QuoteHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.quotes.Quote(c.Request().Context(), req)
	if err != nil {
		return h.quoteError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *QuotesEchoHandler) Regime(c echo.Context) error {
	obs := h.monitor.Observe(c.Request().Context())
	return xhttp.SuccessResponse(c, obs)
}

func (h *QuotesEchoHandler) Curves(c echo.Context) error {
	rows := h.quotes.Curves().All()
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *QuotesEchoHandler) Curve(c echo.Context) error {
	id := c.Param("id")
	curve, ok := h.quotes.Curves().Get(id)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown peril %q", id))
	}
	return xhttp.SuccessResponse(c, curve)
}

func (h *QuotesEchoHandler) RecentQuotes(c echo.Context) error {
	req := &models.RecentQuotesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	since := util.ParseTimeDefault(req.Since, time.Now().Add(-24*time.Hour))

	rows, err := h.quotes.Recent(c.Request().Context(), req.PerilID, since, req.Limit)
	if err != nil {
		return h.quoteError(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// quoteError maps pricing errors onto HTTP statuses: validation failures are
// the caller's fault, instability means the curve itself cannot be priced.
func (h *QuotesEchoHandler) quoteError(c echo.Context, err error) error {
	var unknown *usecase.UnknownPerilError
	if errors.As(err, &unknown) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(unknown.Error()))
	}

	var verr *actuarial.ValidationError
	if errors.As(err, &verr) {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_INVALID",
			Field:   verr.Field,
			Message: verr.Reason,
		}})
	}

	if actuarial.IsInstability(err) {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(err.Error()).WithError(err))
	}

	h.logger.Error("quote failed", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}
