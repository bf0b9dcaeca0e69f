package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/internal/metrics"
	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

type PredictionHandler struct {
	predictor *forecast.Predictor
	defaults  Defaults
}

func NewPredictionHandler(predictor *forecast.Predictor, defaults Defaults) *PredictionHandler {
	return &PredictionHandler{
		predictor: predictor,
		defaults:  defaults,
	}
}

func (h *PredictionHandler) HandlePredict(c *fiber.Ctx) error {
	var req PredictRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			ie := decodeError(err)
			logger.Warn("Rejected prediction request", zap.Error(ie))
			metrics.RecordInputError()
			return c.Status(fiber.StatusBadRequest).JSON(errorBody(ie))
		}
	}

	resp, err := predict(h.predictor, h.defaults, req)
	if err != nil {
		logger.Warn("Rejected prediction request", zap.Error(err))
		metrics.RecordInputError()
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(err))
	}

	return c.JSON(resp)
}

// HandleDefaults returns the values used for omitted request fields.
func (h *PredictionHandler) HandleDefaults(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"release_date":        h.defaults.ReleaseDate.Format(forecast.DateLayout),
		"trailer_views":       h.defaults.TrailerViews,
		"instagram_followers": h.defaults.InstagramFollowers,
		"facebook_followers":  h.defaults.FacebookFollowers,
		"tiktok_followers":    h.defaults.TikTokFollowers,
	})
}

// predict validates req and runs the predictor. Shared by the HTTP and
// websocket surfaces.
func predict(p *forecast.Predictor, defaults Defaults, req PredictRequest) (*PredictionResponse, error) {
	in, err := req.Input(defaults)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	id := uuid.New().String()

	result := p.Predict(in)
	latency := time.Since(start)
	metrics.RecordPrediction(result, latency.Seconds())

	logger.Info("Prediction computed",
		zap.String("prediction_id", id),
		zap.Int("lag_day", result.LagDay),
		zap.Float64("video", result.Video),
		zap.Float64("instagram", result.Instagram),
		zap.Float64("facebook", result.Facebook),
		zap.Float64("tiktok", result.TikTok),
		zap.Float64("final", result.Final),
	)

	resp := newPredictionResponse(id, in, result, latency)
	return &resp, nil
}
