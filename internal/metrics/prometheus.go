package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
)

var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesforecast_predictions_total",
			Help: "Total number of prediction requests",
		},
		[]string{"status"},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salesforecast_prediction_duration_seconds",
			Help:    "Prediction processing duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	FinalEstimate = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salesforecast_final_estimate_millions",
			Help:    "Final sales estimates in millions of units",
			Buckets: []float64{-1, 0, 0.1, 0.5, 1, 2, 5, 10, 20, 50},
		},
	)

	ChannelPrediction = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesforecast_channel_prediction_millions",
			Help: "Last per-channel prediction in millions of units",
		},
		[]string{"channel"},
	)

	TrainingRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesforecast_training_rows",
			Help: "Rows in each channel's training set",
		},
		[]string{"channel"},
	)

	ModelR2 = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "salesforecast_model_r2",
			Help: "In-sample R² of each channel model",
		},
		[]string{"channel"},
	)

	CurveRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesforecast_curve_requests_total",
			Help: "Total response curve requests",
		},
		[]string{"channel", "format"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "salesforecast_sessions_active",
			Help: "Open interactive websocket sessions",
		},
	)
)

func Init() {
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(PredictionDuration)
	prometheus.MustRegister(FinalEstimate)
	prometheus.MustRegister(ChannelPrediction)
	prometheus.MustRegister(TrainingRows)
	prometheus.MustRegister(ModelR2)
	prometheus.MustRegister(CurveRequests)
	prometheus.MustRegister(SessionsActive)
}

// RecordBank publishes the training-time figures of every channel.
func RecordBank(bank *forecast.ModelBank) {
	for _, fit := range bank.Fits() {
		TrainingRows.WithLabelValues(fit.Channel.String()).Set(float64(fit.Rows))
		ModelR2.WithLabelValues(fit.Channel.String()).Set(fit.R2)
	}
}

// RecordPrediction publishes one successful prediction.
func RecordPrediction(r forecast.PredictionResult, seconds float64) {
	PredictionsTotal.WithLabelValues("ok").Inc()
	PredictionDuration.Observe(seconds)
	FinalEstimate.Observe(r.Final)
	for _, ch := range forecast.Channels() {
		ChannelPrediction.WithLabelValues(ch.String()).Set(r.Component(ch))
	}
}

func RecordInputError() {
	PredictionsTotal.WithLabelValues("input_error").Inc()
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
