package forecast

import (
	"fmt"
	"iter"
	"slices"
)

const DefaultCurvePoints = 100

// CurvePoint is one sample of a channel's response curve.
type CurvePoint struct {
	Feature float64
	Sales   float64
}

// CurveSampler sweeps each channel's feature across its training range.
type CurveSampler struct {
	bank   *ModelBank
	points int
}

type SamplerOption func(*CurveSampler)

// WithPoints sets the number of samples per curve.
func WithPoints(n int) SamplerOption {
	return func(s *CurveSampler) {
		s.points = n
	}
}

func NewCurveSampler(bank *ModelBank, opts ...SamplerOption) (*CurveSampler, error) {
	if bank == nil {
		panic("forecast: curve sampler requires a trained model bank")
	}

	s := &CurveSampler{bank: bank, points: DefaultCurvePoints}
	for _, opt := range opts {
		opt(s)
	}

	if s.points < 2 {
		return nil, fmt.Errorf("curve needs at least 2 points, got %d", s.points)
	}

	return s, nil
}

func (s *CurveSampler) Points() int {
	return s.points
}

// Curve returns the response curve of ch. The sequence is lazy and can be
// ranged over any number of times. The swept feature runs linearly from the
// training minimum to the training maximum, both included. For the video
// channel lag_day is held at lagDay.
func (s *CurveSampler) Curve(ch Channel, lagDay int) iter.Seq[CurvePoint] {
	fit := s.bank.Fit(ch)
	lo, hi := fit.FeatureMin, fit.FeatureMax
	n := s.points
	step := (hi - lo) / float64(n-1)

	return func(yield func(CurvePoint) bool) {
		for i := 0; i < n; i++ {
			x := lo + float64(i)*step
			if i == n-1 {
				x = hi
			}

			var y float64
			if ch == Video {
				y = s.bank.predict(ch, x, float64(lagDay))
			} else {
				y = s.bank.predict(ch, x)
			}

			if !yield(CurvePoint{Feature: x, Sales: y}) {
				return
			}
		}
	}
}

// Collect materialises a curve.
func Collect(seq iter.Seq[CurvePoint]) []CurvePoint {
	return slices.Collect(seq)
}
