package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

// rankTolerance is relative to the largest singular value of the
// standardised design matrix.
const rankTolerance = 1e-10

// LinearModel is an ordinary least squares fit with an intercept.
type LinearModel struct {
	Coef      []float64
	Intercept float64
}

// FitLinear solves min ||y - (X·coef + intercept)||². Columns are centred
// and scaled to unit norm before the SVD so that features of very different
// magnitude (views in millions, lag in days) do not hide a rank deficiency.
func FitLinear(x [][]float64, y []float64) (*LinearModel, error) {
	n := len(y)
	if n == 0 || len(x) == 0 {
		return nil, errs.ErrEmptyTrainingSet
	}
	if len(x) != n {
		return nil, fmt.Errorf("feature rows %d do not match targets %d", len(x), n)
	}

	p := len(x[0])
	if p == 0 {
		return nil, fmt.Errorf("no features")
	}
	if n < p {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnderdetermined, formatCounts(n, p))
	}

	means := make([]float64, p)
	scales := make([]float64, p)
	a := mat.NewDense(n, p, nil)

	for j := 0; j < p; j++ {
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			if len(x[i]) != p {
				return nil, fmt.Errorf("row %d has %d features, want %d", i, len(x[i]), p)
			}
			col[i] = x[i][j]
		}

		means[j] = stat.Mean(col, nil)
		floats.AddConst(-means[j], col)
		scales[j] = floats.Norm(col, 2)
		if scales[j] == 0 {
			return nil, fmt.Errorf("%w: feature %d is constant", errs.ErrRankDeficient, j)
		}
		floats.Scale(1/scales[j], col)
		a.SetCol(j, col)
	}

	yMean := stat.Mean(y, nil)
	yc := make([]float64, n)
	copy(yc, y)
	floats.AddConst(-yMean, yc)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("%w: SVD did not converge", errs.ErrRankDeficient)
	}

	rank := svd.Rank(rankTolerance)
	if rank < p {
		return nil, fmt.Errorf("%w: rank %d for %d features", errs.ErrRankDeficient, rank, p)
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, mat.NewVecDense(n, yc), rank)

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j) / scales[j]
	}

	return &LinearModel{
		Coef:      coef,
		Intercept: yMean - floats.Dot(coef, means),
	}, nil
}

// Predict evaluates the model. It panics when the feature count does not
// match the fit.
func (m *LinearModel) Predict(features ...float64) float64 {
	if len(features) != len(m.Coef) {
		panic(fmt.Sprintf("forecast: model expects %d features, got %d", len(m.Coef), len(features)))
	}

	return m.Intercept + floats.Dot(m.Coef, features)
}

// Score returns the coefficient of determination R² of the model on x, y.
// A constant target scores 1 when fitted exactly and 0 otherwise.
func (m *LinearModel) Score(x [][]float64, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}

	yMean := stat.Mean(y, nil)

	var ssRes, ssTot float64
	for i, row := range x {
		r := y[i] - m.Predict(row...)
		ssRes += r * r
		d := y[i] - yMean
		ssTot += d * d
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}

	return 1 - ssRes/ssTot
}

func formatCounts(rows, features int) string {
	return fmt.Sprintf("%d rows for %d features", rows, features)
}
