package forecast

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/errs"
	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

// ChannelFit is the trained state of one channel.
type ChannelFit struct {
	Channel  Channel
	Features []Feature
	Model    *LinearModel
	Rows     int
	R2       float64

	// Range of the swept feature over the training set.
	FeatureMin float64
	FeatureMax float64

	SalesMin float64
	SalesMax float64
}

// ModelBank owns the four channel models. It is built once by Train and is
// read-only afterwards, so one bank may be shared by every request.
type ModelBank struct {
	fits          [numChannels]ChannelFit
	referenceDate time.Time
}

type bankOptions struct {
	referenceDate time.Time
}

type BankOption func(*bankOptions)

// WithReferenceDate sets the date lag_day is counted from at inference.
// It must match the date used to build the dataset's lag_day column.
func WithReferenceDate(t time.Time) BankOption {
	return func(o *bankOptions) {
		o.referenceDate = t
	}
}

// Train fits every channel model from the records. Any channel failing to
// train yields a *errs.DataError and no bank.
func Train(records []dataset.HistoricalRecord, opts ...BankOption) (*ModelBank, error) {
	o := bankOptions{referenceDate: DefaultReferenceDate}
	for _, opt := range opts {
		opt(&o)
	}

	bank := &ModelBank{referenceDate: civil(o.referenceDate)}

	for _, ch := range Channels() {
		fit, err := trainChannel(records, ch)
		if err != nil {
			logger.Error("Channel training failed", zap.String("channel", ch.String()), zap.Error(err))
			return nil, err
		}
		bank.fits[ch] = *fit

		logger.Info("Channel model trained",
			zap.String("channel", ch.String()),
			zap.Int("rows", fit.Rows),
			zap.Float64s("coef", fit.Model.Coef),
			zap.Float64("intercept", fit.Model.Intercept),
			zap.Float64("r2", fit.R2),
		)
	}

	return bank, nil
}

func trainChannel(records []dataset.HistoricalRecord, ch Channel) (*ChannelFit, error) {
	ts, err := BuildTrainingSet(records, ch)
	if err != nil {
		return nil, err
	}

	model, err := FitLinear(ts.X, ts.Y)
	if err != nil {
		return nil, &errs.DataError{Channel: ch.String(), Err: err}
	}

	swept := ts.Column(0)

	return &ChannelFit{
		Channel:    ch,
		Features:   ts.Features,
		Model:      model,
		Rows:       ts.Len(),
		R2:         model.Score(ts.X, ts.Y),
		FeatureMin: floats.Min(swept),
		FeatureMax: floats.Max(swept),
		SalesMin:   floats.Min(ts.Y),
		SalesMax:   floats.Max(ts.Y),
	}, nil
}

// Fit returns the trained state of a channel.
func (b *ModelBank) Fit(ch Channel) ChannelFit {
	if ch < 0 || ch >= numChannels {
		panic(fmt.Sprintf("forecast: unknown channel %d", int(ch)))
	}

	return b.fits[ch]
}

// Fits returns the trained state of every channel in canonical order.
func (b *ModelBank) Fits() []ChannelFit {
	out := make([]ChannelFit, 0, numChannels)
	for _, ch := range Channels() {
		out = append(out, b.fits[ch])
	}

	return out
}

func (b *ModelBank) ReferenceDate() time.Time {
	return b.referenceDate
}

// LagDay derives the lag_day feature of a release date.
func (b *ModelBank) LagDay(release time.Time) int {
	return LagDays(b.referenceDate, release)
}

func (b *ModelBank) predict(ch Channel, features ...float64) float64 {
	return b.fits[ch].Model.Predict(features...)
}
