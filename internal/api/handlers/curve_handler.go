package handlers

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/internal/metrics"
	"github.com/JordanChem/VideoGame-prediction/internal/render"
	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

type CurveHandler struct {
	sampler     *forecast.CurveSampler
	bank        *forecast.ModelBank
	defaults    Defaults
	chartWidth  int
	chartHeight int
}

func NewCurveHandler(sampler *forecast.CurveSampler, bank *forecast.ModelBank, defaults Defaults, chartWidth, chartHeight int) *CurveHandler {
	return &CurveHandler{
		sampler:     sampler,
		bank:        bank,
		defaults:    defaults,
		chartWidth:  chartWidth,
		chartHeight: chartHeight,
	}
}

type curvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type curveResponse struct {
	Channel string       `json:"channel"`
	Feature string       `json:"feature"`
	LagDay  int          `json:"lag_day"`
	Points  []curvePoint `json:"points"`
}

func (h *CurveHandler) HandleCurve(c *fiber.Ctx) error {
	ch, lag, err := h.parse(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(err))
	}
	metrics.CurveRequests.WithLabelValues(ch.String(), "json").Inc()

	resp := curveResponse{
		Channel: ch.String(),
		Feature: ch.SweptFeature().String(),
		LagDay:  lag,
		Points:  make([]curvePoint, 0, h.sampler.Points()),
	}
	for p := range h.sampler.Curve(ch, lag) {
		resp.Points = append(resp.Points, curvePoint{X: p.Feature, Y: p.Sales})
	}

	return c.JSON(resp)
}

// HandleCurves returns the curves of every channel for one release date.
func (h *CurveHandler) HandleCurves(c *fiber.Ctx) error {
	lag, err := h.lagDay(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(err))
	}

	out := make([]curveResponse, 0, len(forecast.Channels()))
	for _, ch := range forecast.Channels() {
		metrics.CurveRequests.WithLabelValues(ch.String(), "json").Inc()

		resp := curveResponse{
			Channel: ch.String(),
			Feature: ch.SweptFeature().String(),
			LagDay:  lag,
		}
		for p := range h.sampler.Curve(ch, lag) {
			resp.Points = append(resp.Points, curvePoint{X: p.Feature, Y: p.Sales})
		}
		out = append(out, resp)
	}

	return c.JSON(fiber.Map{"curves": out})
}

func (h *CurveHandler) HandleChart(c *fiber.Ctx) error {
	ch, lag, err := h.parse(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(err))
	}
	metrics.CurveRequests.WithLabelValues(ch.String(), "png").Inc()

	start := time.Now()
	chart := render.ForChannel(ch, forecast.Collect(h.sampler.Curve(ch, lag)))

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, h.chartWidth, h.chartHeight); err != nil {
		logger.Error("Failed to render chart", zap.String("channel", ch.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render chart",
		})
	}

	logger.Debug("Chart rendered",
		zap.String("channel", ch.String()),
		zap.Int("bytes", buf.Len()),
		zap.Duration("took", time.Since(start)),
	)

	c.Type("png")
	return c.Send(buf.Bytes())
}

func (h *CurveHandler) parse(c *fiber.Ctx) (forecast.Channel, int, error) {
	ch, err := forecast.ParseChannel(c.Params("channel"))
	if err != nil {
		return 0, 0, err
	}

	lag, err := h.lagDay(c)
	if err != nil {
		return 0, 0, err
	}

	return ch, lag, nil
}

// lagDay derives the lag_day held fixed on the video curve from the
// release_date query parameter.
func (h *CurveHandler) lagDay(c *fiber.Ctx) (int, error) {
	release := h.defaults.ReleaseDate
	if raw := c.Query("release_date"); raw != "" {
		d, err := forecast.ParseDate("release_date", raw)
		if err != nil {
			return 0, err
		}
		release = d
	}

	return h.bank.LagDay(release), nil
}
