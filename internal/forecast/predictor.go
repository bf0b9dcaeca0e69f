package forecast

import (
	"time"

	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

// PredictionInput holds the live values of one prediction request.
type PredictionInput struct {
	ReleaseDate        time.Time
	TrailerViews       int64
	InstagramFollowers int64
	FacebookFollowers  int64
	TikTokFollowers    int64
}

// Validate rejects negative counts. Any release date is accepted.
func (in PredictionInput) Validate() error {
	counts := []struct {
		field string
		value int64
	}{
		{"trailer_views", in.TrailerViews},
		{"instagram_followers", in.InstagramFollowers},
		{"facebook_followers", in.FacebookFollowers},
		{"tiktok_followers", in.TikTokFollowers},
	}
	for _, c := range counts {
		if c.value < 0 {
			return errs.NewInputError(c.field, "must be non-negative, got %d", c.value)
		}
	}

	return nil
}

// PredictionResult holds per-channel predictions and their unweighted mean,
// all in millions of units. Values are not clamped: linear extrapolation may
// go negative or above any historical figure.
type PredictionResult struct {
	LagDay    int
	Video     float64
	Instagram float64
	Facebook  float64
	TikTok    float64
	Final     float64
}

// Component returns the prediction of one channel.
func (r PredictionResult) Component(ch Channel) float64 {
	switch ch {
	case Video:
		return r.Video
	case Instagram:
		return r.Instagram
	case Facebook:
		return r.Facebook
	case TikTok:
		return r.TikTok
	default:
		return 0
	}
}

// Predictor evaluates the trained bank. It holds no mutable state.
type Predictor struct {
	bank *ModelBank
}

func NewPredictor(bank *ModelBank) *Predictor {
	if bank == nil {
		panic("forecast: predictor requires a trained model bank")
	}

	return &Predictor{bank: bank}
}

// Predict assumes in has passed Validate.
//
// The final estimate is the plain mean of the four channel predictions. The
// channels are trained independently and are not weighted or reconciled;
// this is a known limitation of the model, kept on purpose.
func (p *Predictor) Predict(in PredictionInput) PredictionResult {
	lag := p.bank.LagDay(in.ReleaseDate)

	r := PredictionResult{
		LagDay:    lag,
		Video:     p.bank.predict(Video, float64(in.TrailerViews), float64(lag)),
		Instagram: p.bank.predict(Instagram, float64(in.InstagramFollowers)),
		Facebook:  p.bank.predict(Facebook, float64(in.FacebookFollowers)),
		TikTok:    p.bank.predict(TikTok, float64(in.TikTokFollowers)),
	}
	r.Final = (r.Video + r.Instagram + r.Facebook + r.TikTok) / numChannels

	return r
}

func (p *Predictor) Bank() *ModelBank {
	return p.bank
}
