// Package render draws channel response curves as PNG line charts.
package render

import (
	"errors"
	"image/color"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
)

var ErrTooFewPoints = errors.New("chart needs at least two points")

var (
	background = color.NRGBA{R: 0x0e, G: 0x11, B: 0x17, A: 0xff}
	axisColor  = color.NRGBA{R: 0x8a, G: 0x8f, B: 0x98, A: 0xff}
	textColor  = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	lineColor  = color.NRGBA{R: 0x34, G: 0x94, B: 0xe6, A: 0xff}
)

const margin = 60.0

type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Points []forecast.CurvePoint
}

// ForChannel builds the chart of a channel's response curve.
func ForChannel(ch forecast.Channel, points []forecast.CurvePoint) Chart {
	return Chart{
		Title:  ch.Title(),
		XLabel: ch.SweptFeature().Label(),
		YLabel: "Predicted sales (M)",
		Points: points,
	}
}

// WritePNG draws the chart at width×height pixels and encodes it to w.
func (c Chart) WritePNG(w io.Writer, width, height int) error {
	if len(c.Points) < 2 {
		return ErrTooFewPoints
	}
	if float64(width) <= 2*margin || float64(height) <= 2*margin {
		return errors.New("chart size too small")
	}

	xMin, xMax, yMin, yMax := bounds(c.Points)

	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	left, right := margin, float64(width)-margin/2
	top, bottom := margin, float64(height)-margin

	sx := func(x float64) float64 { return left + (x-xMin)/(xMax-xMin)*(right-left) }
	sy := func(y float64) float64 { return bottom - (y-yMin)/(yMax-yMin)*(bottom-top) }

	dc.SetColor(axisColor)
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()

	dc.SetColor(lineColor)
	dc.SetLineWidth(2.5)
	for i, p := range c.Points {
		if i == 0 {
			dc.MoveTo(sx(p.Feature), sy(p.Sales))
			continue
		}
		dc.LineTo(sx(p.Feature), sy(p.Sales))
	}
	dc.Stroke()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(c.Title, float64(width)/2, margin/2, 0.5, 0.5)
	dc.DrawStringAnchored(c.XLabel, (left+right)/2, bottom+40, 0.5, 0.5)
	dc.DrawStringAnchored(c.YLabel, left, top-14, 0, 0.5)

	dc.DrawStringAnchored(formatTick(xMin), left, bottom+16, 0, 0.5)
	dc.DrawStringAnchored(formatTick(xMax), right, bottom+16, 1, 0.5)
	dc.DrawStringAnchored(formatTick(yMin), left-6, bottom, 1, 0.5)
	dc.DrawStringAnchored(formatTick(yMax), left-6, top, 1, 0.5)

	return dc.EncodePNG(w)
}

// bounds widens a degenerate axis so the scale functions never divide by zero.
func bounds(points []forecast.CurvePoint) (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		xMin = math.Min(xMin, p.Feature)
		xMax = math.Max(xMax, p.Feature)
		yMin = math.Min(yMin, p.Sales)
		yMax = math.Max(yMax, p.Sales)
	}

	if xMax == xMin {
		xMin, xMax = xMin-1, xMax+1
	}
	if yMax == yMin {
		yMin, yMax = yMin-1, yMax+1
	}

	return xMin, xMax, yMin, yMax
}

func formatTick(v float64) string {
	if math.Abs(v) >= 1000 {
		return humanize.SIWithDigits(v, 1, "")
	}

	return humanize.FtoaWithDigits(v, 2)
}
