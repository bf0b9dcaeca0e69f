package forecast

import (
	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

// TrainingSet holds the rows of one channel whose features and target are
// all present. X and Y are row-aligned.
type TrainingSet struct {
	Channel  Channel
	Features []Feature
	X        [][]float64
	Y        []float64
	Rows     []int
}

// BuildTrainingSet filters records for the channel. Each channel filters
// independently, so two channels may train on different rows.
func BuildTrainingSet(records []dataset.HistoricalRecord, ch Channel) (*TrainingSet, error) {
	features := ch.Features()
	if len(features) == 0 {
		return nil, &errs.DataError{Channel: ch.String(), Reason: "channel has no features"}
	}

	ts := &TrainingSet{Channel: ch, Features: features}

	for i := range records {
		rec := &records[i]
		if rec.GlobalSales == nil {
			continue
		}

		row, ok := featureRow(rec, features)
		if !ok {
			continue
		}

		ts.X = append(ts.X, row)
		ts.Y = append(ts.Y, *rec.GlobalSales)
		ts.Rows = append(ts.Rows, rec.Row)
	}

	switch {
	case ts.Len() == 0:
		return nil, &errs.DataError{Channel: ch.String(), Err: errs.ErrEmptyTrainingSet}
	case ts.Len() < len(features):
		return nil, &errs.DataError{
			Channel: ch.String(),
			Err:     errs.ErrUnderdetermined,
			Reason:  formatCounts(ts.Len(), len(features)),
		}
	}

	return ts, nil
}

func featureRow(rec *dataset.HistoricalRecord, features []Feature) ([]float64, bool) {
	row := make([]float64, len(features))
	for j, f := range features {
		v, ok := f.value(rec)
		if !ok {
			return nil, false
		}
		row[j] = v
	}

	return row, true
}

func (ts *TrainingSet) Len() int {
	return len(ts.Y)
}

// Column returns a copy of feature column j.
func (ts *TrainingSet) Column(j int) []float64 {
	col := make([]float64, len(ts.X))
	for i, row := range ts.X {
		col[i] = row[j]
	}

	return col
}
