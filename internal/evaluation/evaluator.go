package evaluation

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

// Evaluator summarises how each channel model fits its own training rows.
// The figures are in-sample only; nothing is held out.
type Evaluator struct {
	bank  *forecast.ModelBank
	table *dataset.Table
}

type ChannelReport struct {
	Channel    string    `json:"channel"`
	Features   []string  `json:"features"`
	Rows       int       `json:"rows"`
	Coef       []float64 `json:"coef"`
	Intercept  float64   `json:"intercept"`
	R2         float64   `json:"r2"`
	FeatureMin float64   `json:"feature_min"`
	FeatureMax float64   `json:"feature_max"`
	SalesMin   float64   `json:"sales_min"`
	SalesMax   float64   `json:"sales_max"`
}

type Report struct {
	Records       int             `json:"records"`
	Sheet         string          `json:"sheet"`
	Fingerprint   string          `json:"fingerprint"`
	ReferenceDate string          `json:"reference_date"`
	LagDayMin     *int64          `json:"lag_day_min,omitempty"`
	LagDayMax     *int64          `json:"lag_day_max,omitempty"`
	Channels      []ChannelReport `json:"channels"`
	AvgR2         float64         `json:"avg_r2"`
	TotalRows     int             `json:"total_rows"`
}

func NewEvaluator(bank *forecast.ModelBank, table *dataset.Table) *Evaluator {
	return &Evaluator{
		bank:  bank,
		table: table,
	}
}

func (e *Evaluator) Evaluate() *Report {
	report := &Report{
		Records:       len(e.table.Records),
		Sheet:         e.table.Sheet,
		Fingerprint:   e.table.Fingerprint,
		ReferenceDate: e.bank.ReferenceDate().Format(time.DateOnly),
	}

	if lo, hi, ok := e.table.LagDayRange(); ok {
		report.LagDayMin = &lo
		report.LagDayMax = &hi
	}

	var totalR2 float64
	for _, fit := range e.bank.Fits() {
		features := make([]string, len(fit.Features))
		for i, f := range fit.Features {
			features[i] = f.String()
		}

		report.Channels = append(report.Channels, ChannelReport{
			Channel:    fit.Channel.String(),
			Features:   features,
			Rows:       fit.Rows,
			Coef:       append([]float64(nil), fit.Model.Coef...),
			Intercept:  fit.Model.Intercept,
			R2:         fit.R2,
			FeatureMin: fit.FeatureMin,
			FeatureMax: fit.FeatureMax,
			SalesMin:   fit.SalesMin,
			SalesMax:   fit.SalesMax,
		})

		totalR2 += fit.R2
		report.TotalRows += fit.Rows
	}

	if n := len(report.Channels); n > 0 {
		report.AvgR2 = totalR2 / float64(n)
	}

	logger.Info("Model bank evaluated",
		zap.Int("records", report.Records),
		zap.Int("total_rows", report.TotalRows),
		zap.Float64("avg_r2", report.AvgR2),
		zap.String("reference_date", report.ReferenceDate),
	)

	return report
}

// GenerateReport renders the report as plain text.
func (e *Evaluator) GenerateReport(report *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, `
Model Bank Report
=================

Dataset: %d records (sheet %q, fingerprint %s)
Reference date: %s
`, report.Records, report.Sheet, report.Fingerprint, report.ReferenceDate)

	if report.LagDayMin != nil {
		fmt.Fprintf(&b, "Observed lag_day: %d .. %d\n", *report.LagDayMin, *report.LagDayMax)
	}

	b.WriteString("\nChannels:\n")
	for _, ch := range report.Channels {
		fmt.Fprintf(&b, "- %s (%s): rows=%d R²=%.4f intercept=%.6g coef=%s range=[%.6g, %.6g]\n",
			ch.Channel,
			strings.Join(ch.Features, ", "),
			ch.Rows,
			ch.R2,
			ch.Intercept,
			formatCoef(ch.Coef),
			ch.FeatureMin, ch.FeatureMax,
		)
	}

	fmt.Fprintf(&b, "\nAverage in-sample R²: %.4f\n", report.AvgR2)
	b.WriteString("Final estimate: unweighted mean of the four channels (no weighting, no clamping).\n")

	return b.String()
}

func formatCoef(coef []float64) string {
	parts := make([]string, len(coef))
	for i, c := range coef {
		parts[i] = fmt.Sprintf("%.6g", c)
	}

	return "[" + strings.Join(parts, " ") + "]"
}
