package forecast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

func TestBuildTrainingSet_PerChannelIndependence(t *testing.T) {
	records := linearRecords()

	videoBefore, err := BuildTrainingSet(records, Video)
	require.NoError(t, err)
	igBefore, err := BuildTrainingSet(records, Instagram)
	require.NoError(t, err)

	records[2].Instagram = nil

	videoAfter, err := BuildTrainingSet(records, Video)
	require.NoError(t, err)
	igAfter, err := BuildTrainingSet(records, Instagram)
	require.NoError(t, err)

	require.Equal(t, videoBefore, videoAfter)
	require.Equal(t, igBefore.Len()-1, igAfter.Len())
	require.NotContains(t, igAfter.Rows, records[2].Row)
	require.Len(t, igAfter.X, igAfter.Len())
}

func TestBuildTrainingSet_RowAlignment(t *testing.T) {
	records := linearRecords()
	records[0].LagDay = nil
	records[3].GlobalSales = nil

	ts, err := BuildTrainingSet(records, Video)
	require.NoError(t, err)
	require.Equal(t, []int{3, 4, 6}, ts.Rows)
	require.Equal(t, []float64{200, 300, 500}, ts.Y)
	require.Equal(t, []float64{250000, -5}, ts.X[0])
	require.Equal(t, []float64{250000, 300000, 500000}, ts.Column(0))
}

func TestBuildTrainingSet_Errors(t *testing.T) {
	records := linearRecords()
	for i := range records {
		records[i].TikTok = nil
	}

	_, err := BuildTrainingSet(records, TikTok)
	require.ErrorIs(t, err, errs.ErrEmptyTrainingSet)

	var de *errs.DataError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "tiktok", de.Channel)

	_, err = BuildTrainingSet(records[:1], Video)
	require.ErrorIs(t, err, errs.ErrUnderdetermined)
	require.True(t, errs.IsDataError(err))
}

func TestTrain_ExactFitRecovery(t *testing.T) {
	bank := trainedBank(t, linearRecords())

	ig := bank.Fit(Instagram)
	require.Equal(t, 5, ig.Rows)
	require.InDelta(t, 0.01, ig.Model.Coef[0], 1e-12)
	require.InDelta(t, 0.0, ig.Model.Intercept, 1e-9)
	require.InDelta(t, 1.0, ig.R2, 1e-12)
	require.InDelta(t, 500.0, ig.Model.Predict(50000), 1e-6)

	require.Equal(t, 10000.0, ig.FeatureMin)
	require.Equal(t, 50000.0, ig.FeatureMax)
	require.Equal(t, 100.0, ig.SalesMin)
	require.Equal(t, 500.0, ig.SalesMax)

	video := bank.Fit(Video)
	require.Equal(t, []Feature{TrailerViews, LagDay}, video.Features)
	require.Equal(t, 100000.0, video.FeatureMin)
	require.Equal(t, 500000.0, video.FeatureMax)

	fits := bank.Fits()
	require.Len(t, fits, 4)
	for i, ch := range Channels() {
		require.Equal(t, ch, fits[i].Channel)
	}
}

func TestTrain_UnderdeterminedRejected(t *testing.T) {
	records := linearRecords()
	for i := 1; i < len(records); i++ {
		records[i].TrailerViews = nil
	}

	bank, err := Train(records)
	require.Nil(t, bank)
	require.True(t, errs.IsDataError(err))
	require.ErrorIs(t, err, errs.ErrUnderdetermined)

	require.Panics(t, func() { NewPredictor(bank) })
}

func TestTrain_RankDeficientRejected(t *testing.T) {
	records := linearRecords()
	for i := range records {
		records[i].Facebook = i64(42)
	}

	_, err := Train(records)
	require.ErrorIs(t, err, errs.ErrRankDeficient)

	var de *errs.DataError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "facebook", de.Channel)
}

func TestTrain_ChannelsUseDifferentRows(t *testing.T) {
	records := append(linearRecords(),
		dataset.HistoricalRecord{Row: 7, Instagram: i64(60000), GlobalSales: f64(600)},
		dataset.HistoricalRecord{Row: 8, TrailerViews: i64(700000)},
	)

	bank := trainedBank(t, records)
	require.Equal(t, 6, bank.Fit(Instagram).Rows)
	require.Equal(t, 5, bank.Fit(Video).Rows)
	require.Equal(t, 60000.0, bank.Fit(Instagram).FeatureMax)
	require.Equal(t, 500000.0, bank.Fit(Video).FeatureMax)
}

func TestModelBank_FitUnknownChannelPanics(t *testing.T) {
	bank := trainedBank(t, linearRecords())
	require.Panics(t, func() { bank.Fit(Channel(9)) })
}
