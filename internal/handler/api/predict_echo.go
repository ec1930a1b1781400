package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	models "TrendCast/internal/domain/models"
	"TrendCast/internal/forecast"
	"TrendCast/internal/services/analytics"
	"TrendCast/internal/usecase"
	xhttp "TrendCast/pkg/http"
	xlogger "TrendCast/pkg/logger"
	"TrendCast/pkg/util"
)

// PredictEchoHandler exposes the forecasting endpoints.
type PredictEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.Predictor
}

func NewPredictEchoHandler(logger *xlogger.Logger, predictor *usecase.Predictor) *PredictEchoHandler {
	return &PredictEchoHandler{logger: logger, predictor: predictor}
}

func (h *PredictEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/predict", h.Predict)
	e.POST("/predict/batch", h.PredictBatch)
}

func (h *PredictEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.predictor.Health())
}

func (h *PredictEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr.Error())
	}

	res, err := h.predictor.Predict(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("predict usecase error",
			xlogger.String("project_id", req.ProjectID),
			xlogger.String("metric", req.MetricType),
			xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PredictEchoHandler) PredictBatch(c echo.Context) error {
	req := &models.BatchPredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr.Error())
	}

	res, err := h.predictor.PredictBatch(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("batch predict usecase error",
			xlogger.String("project_id", req.ProjectID),
			xlogger.Error(err))
		return h.errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// errorResponse maps domain errors onto the wire envelope: bad input gets a
// 400 with the cause, a failed fit gets a fixed 500 message, everything else
// a 500 with the cause.
func (h *PredictEchoHandler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrEmptyData),
		errors.Is(err, forecast.ErrInsufficientData),
		errors.Is(err, analytics.ErrLengthMismatch):
		return xhttp.BadRequestResponse(c, err.Error())
	case errors.Is(err, usecase.ErrTrainingFailed):
		return xhttp.InternalErrorResponse(c, usecase.ErrTrainingFailed.Error())
	case errors.Is(err, util.ErrDateParse):
		return xhttp.InternalErrorResponse(c, err.Error())
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}
