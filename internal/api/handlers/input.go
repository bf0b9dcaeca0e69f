package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/JordanChem/VideoGame-prediction/internal/errs"
	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/pkg/config"
)

// Defaults fill the fields a request leaves out.
type Defaults struct {
	ReleaseDate        time.Time
	TrailerViews       int64
	InstagramFollowers int64
	FacebookFollowers  int64
	TikTokFollowers    int64
}

func DefaultsFromConfig(cfg config.InputConfig) (Defaults, error) {
	release, err := forecast.ParseDate("input.releaseDate", cfg.ReleaseDate)
	if err != nil {
		return Defaults{}, err
	}

	d := Defaults{
		ReleaseDate:        release,
		TrailerViews:       cfg.TrailerViews,
		InstagramFollowers: cfg.Instagram,
		FacebookFollowers:  cfg.Facebook,
		TikTokFollowers:    cfg.TikTok,
	}

	return d, d.input().Validate()
}

func (d Defaults) input() forecast.PredictionInput {
	return forecast.PredictionInput{
		ReleaseDate:        d.ReleaseDate,
		TrailerViews:       d.TrailerViews,
		InstagramFollowers: d.InstagramFollowers,
		FacebookFollowers:  d.FacebookFollowers,
		TikTokFollowers:    d.TikTokFollowers,
	}
}

// PredictRequest is the wire form of a prediction input. Nil fields take
// their default.
type PredictRequest struct {
	ReleaseDate        *string `json:"release_date"`
	TrailerViews       *int64  `json:"trailer_views"`
	InstagramFollowers *int64  `json:"instagram_followers"`
	FacebookFollowers  *int64  `json:"facebook_followers"`
	TikTokFollowers    *int64  `json:"tiktok_followers"`
}

// Input merges the request over the defaults and validates the result.
func (r PredictRequest) Input(d Defaults) (forecast.PredictionInput, error) {
	in := d.input()

	if r.ReleaseDate != nil {
		release, err := forecast.ParseDate("release_date", *r.ReleaseDate)
		if err != nil {
			return forecast.PredictionInput{}, err
		}
		in.ReleaseDate = release
	}
	if r.TrailerViews != nil {
		in.TrailerViews = *r.TrailerViews
	}
	if r.InstagramFollowers != nil {
		in.InstagramFollowers = *r.InstagramFollowers
	}
	if r.FacebookFollowers != nil {
		in.FacebookFollowers = *r.FacebookFollowers
	}
	if r.TikTokFollowers != nil {
		in.TikTokFollowers = *r.TikTokFollowers
	}

	if err := in.Validate(); err != nil {
		return forecast.PredictionInput{}, err
	}

	return in, nil
}

// decodeError turns a JSON decoding failure into an input error naming the
// offending field when the decoder reports one.
func decodeError(err error) *errs.InputError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return errs.NewInputError(field, "expected %s, got JSON %s", typeErr.Type, typeErr.Value)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return errs.NewInputError("", "malformed JSON at offset %d", syntaxErr.Offset)
	}

	return errs.NewInputError("", "%v", err)
}

// PredictionResponse carries every figure in millions of units plus the
// final estimate as a whole-unit count. FinalUnits is omitted when the count
// does not fit an int64; FinalFormatted is always set.
type PredictionResponse struct {
	ID             string  `json:"id"`
	ReleaseDate    string  `json:"release_date"`
	LagDay         int     `json:"lag_day"`
	Video          float64 `json:"video"`
	Instagram      float64 `json:"instagram"`
	Facebook       float64 `json:"facebook"`
	TikTok         float64 `json:"tiktok"`
	Final          float64 `json:"final"`
	FinalUnits     *int64  `json:"final_units,omitempty"`
	FinalFormatted string  `json:"final_formatted"`
	LatencyMS      float64 `json:"latency_ms"`
}

func newPredictionResponse(id string, in forecast.PredictionInput, r forecast.PredictionResult, latency time.Duration) PredictionResponse {
	units, formatted := toUnits(r.Final)

	return PredictionResponse{
		ID:             id,
		ReleaseDate:    in.ReleaseDate.Format(forecast.DateLayout),
		LagDay:         r.LagDay,
		Video:          r.Video,
		Instagram:      r.Instagram,
		Facebook:       r.Facebook,
		TikTok:         r.TikTok,
		Final:          r.Final,
		FinalUnits:     units,
		FinalFormatted: formatted,
		LatencyMS:      float64(latency.Microseconds()) / 1000,
	}
}

// toUnits converts millions to a rounded unit count and its display form.
// Counts outside the int64 range are formatted from the float and return
// nil units.
func toUnits(millions float64) (*int64, string) {
	u := math.Round(millions * 1e6)
	if math.IsNaN(u) || math.Abs(u) >= math.MaxInt64 {
		return nil, spaced(humanize.Commaf(u))
	}

	v := int64(u)
	return &v, spaced(humanize.Comma(v))
}

// spaced groups thousands with spaces: "1,234,567" → "1 234 567".
func spaced(s string) string {
	return strings.ReplaceAll(s, ",", " ")
}

func errorBody(err error) map[string]any {
	if ie, ok := errs.AsInputError(err); ok {
		body := map[string]any{"error": ie.Error()}
		if ie.Field != "" {
			body["field"] = ie.Field
		}
		return body
	}

	return map[string]any{"error": fmt.Sprint(err)}
}
