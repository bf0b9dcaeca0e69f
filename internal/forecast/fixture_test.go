package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(row int, views, lag, ig, fb, tt int64, sales float64) dataset.HistoricalRecord {
	return dataset.HistoricalRecord{
		Row:          row,
		TrailerViews: i64(views),
		LagDay:       i64(lag),
		Instagram:    i64(ig),
		Facebook:     i64(fb),
		TikTok:       i64(tt),
		GlobalSales:  f64(sales),
	}
}

// linearRecords is a noiseless dataset where global_sales = 0.01 × Instagram.
func linearRecords() []dataset.HistoricalRecord {
	return []dataset.HistoricalRecord{
		record(2, 100000, 10, 10000, 70000, 5000, 100),
		record(3, 250000, -5, 20000, 20000, 9000, 200),
		record(4, 300000, 40, 30000, 55000, 1000, 300),
		record(5, 420000, 22, 40000, 90000, 12000, 400),
		record(6, 500000, 90, 50000, 15000, 7000, 500),
	}
}

func trainedBank(t *testing.T, records []dataset.HistoricalRecord) *ModelBank {
	t.Helper()

	bank, err := Train(records)
	require.NoError(t, err)
	require.NotNil(t, bank)

	return bank
}

func defaultInput() PredictionInput {
	return PredictionInput{
		ReleaseDate:        date(2025, time.December, 31),
		TrailerViews:       100000,
		InstagramFollowers: 50000,
		FacebookFollowers:  75000,
		TikTokFollowers:    25000,
	}
}
