package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

// testPredictor trains on a noiseless dataset where global_sales equals
// 0.01 × Instagram followers.
func testPredictor(t *testing.T) *forecast.Predictor {
	t.Helper()

	rows := [][]int64{
		{100000, 10, 10000, 70000, 5000},
		{250000, -5, 20000, 20000, 9000},
		{300000, 40, 30000, 55000, 1000},
		{420000, 22, 40000, 90000, 12000},
		{500000, 90, 50000, 15000, 7000},
	}
	records := make([]dataset.HistoricalRecord, len(rows))
	for i, r := range rows {
		records[i] = dataset.HistoricalRecord{
			Row:          i + 2,
			TrailerViews: i64(r[0]),
			LagDay:       i64(r[1]),
			Instagram:    i64(r[2]),
			Facebook:     i64(r[3]),
			TikTok:       i64(r[4]),
			GlobalSales:  f64(float64(r[2]) / 100),
		}
	}

	bank, err := forecast.Train(records)
	require.NoError(t, err)

	return forecast.NewPredictor(bank)
}

func testDefaults() Defaults {
	return Defaults{
		ReleaseDate:        time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		TrailerViews:       100000,
		InstagramFollowers: 50000,
		FacebookFollowers:  75000,
		TikTokFollowers:    25000,
	}
}
