package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	models "SolSignal/internal/domain/models"
	domrepo "SolSignal/internal/domain/repository"
	"SolSignal/internal/usecase"
	xhttp "SolSignal/pkg/http"
	xlogger "SolSignal/pkg/logger"
)

// SignalsEchoHandler exposes the dashboard API over Echo.
type SignalsEchoHandler struct {
	logger   *xlogger.Logger
	signals  *usecase.SignalUseCase
	backtest *usecase.BacktestUseCase
	sync     *usecase.SyncUseCase
	store    domrepo.BarStore
}

func NewSignalsEchoHandler(
	logger *xlogger.Logger,
	signals *usecase.SignalUseCase,
	backtest *usecase.BacktestUseCase,
	sync *usecase.SyncUseCase,
	store domrepo.BarStore,
) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, signals: signals, backtest: backtest, sync: sync, store: store}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/bars", h.Bars)
	g.GET("/forecast", h.Forecast)
	g.GET("/signal", h.Signal)
	g.GET("/signal/history", h.SignalHistory)
	g.GET("/backtest", h.Backtest)
	g.POST("/sync", h.Sync)
}

func (h *SignalsEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SignalsEchoHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bars, err := h.signals.GetBars(c.Request().Context(), req.Symbol, req.N)
	if err != nil {
		h.logger.Error("bars usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, bars)
}

func (h *SignalsEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.signals.GetForecast(c.Request().Context(), req.Symbol, req.Horizon, req.N)
	if err != nil {
		if ok, resp := domainErrorResponse(c, err); ok {
			return resp
		}
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, points)
}

func (h *SignalsEchoHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	sig, err := h.signals.Evaluate(c.Request().Context(), req.Symbol, req.Horizon, req.N)
	if err != nil {
		if ok, resp := domainErrorResponse(c, err); ok {
			return resp
		}
		h.logger.Error("signal usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sig)
}

func (h *SignalsEchoHandler) SignalHistory(c echo.Context) error {
	history := h.signals.History()
	if since, ok := xhttp.ParseTime(c.QueryParam("since")); ok {
		kept := history[:0]
		for _, s := range history {
			if !s.Timestamp.Before(since) {
				kept = append(kept, s)
			}
		}
		history = kept
	}
	if limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && limit < len(history) {
		history = history[len(history)-limit:]
	}
	return xhttp.SuccessResponse(c, history)
}

func (h *SignalsEchoHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.backtest.Run(c.Request().Context(), usecase.RunBacktestParams{
		Symbol:        req.Symbol,
		LookbackDays:  req.LookbackDays,
		StopLossPct:   req.StopLossPct,
		TakeProfitPct: req.TakeProfitPct,
	})
	if err != nil {
		if ok, resp := domainErrorResponse(c, err); ok {
			return resp
		}
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *SignalsEchoHandler) Sync(c echo.Context) error {
	req := &models.SyncRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sync.Sync(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		h.logger.Error("sync usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// domainErrorResponse maps the typed evaluation errors to 400s so the
// dashboard can tell bad input apart from infrastructure failures.
func domainErrorResponse(c echo.Context, err error) (bool, error) {
	var incomplete *models.IncompleteIndicatorsError
	var empty *models.EmptyForecastError
	var short *models.InsufficientDataError
	switch {
	case errors.As(err, &incomplete):
		return true, xhttp.BadRequestResponse(c, incomplete.Error())
	case errors.As(err, &empty):
		return true, xhttp.BadRequestResponse(c, empty.Error())
	case errors.As(err, &short):
		return true, xhttp.BadRequestResponse(c, short.Error())
	}
	return false, nil
}
