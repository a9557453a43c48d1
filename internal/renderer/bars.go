package renderer

import (
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/errors"
)

// barLayout splits the canvas width into one slot per bar, two thirds bar and
// one third gap.
func barLayout(canvasWidth, bars int) (width, spacing int, err error) {
	slot := (canvasWidth - 100) / bars
	if slot < 3 {
		return 0, 0, errors.Renderf("too many categories (%d) for a %dpx wide chart", bars, canvasWidth)
	}
	width = slot * 2 / 3
	if width > 80 {
		width = 80
	}
	spacing = slot - width
	if spacing > 60 {
		spacing = 60
	}
	return width, spacing, nil
}

func drawColumns(w io.Writer, s *chart.ColumnSpec) error {
	if len(s.Data) == 0 {
		return errors.Renderf("%s chart requires at least one data point", s.Type)
	}

	p := newPivot(len(s.Data), func(i int) (string, string, float64) {
		return string(s.Data[i].Category), s.Data[i].Group, s.Data[i].Value
	})
	if p.grouped() {
		return drawStackedColumns(w, s.Options, p)
	}

	values := make([]gochart.Value, len(p.categories))
	for ci, label := range p.categories {
		values[ci] = gochart.Value{Label: label, Value: p.values[0][ci]}
	}
	return drawBars(w, s.Options, values)
}

// drawBars renders one bar per value.
func drawBars(w io.Writer, opts chart.Options, values []gochart.Value) error {
	width, height := opts.Size()
	barWidth, spacing, err := barLayout(width, len(values))
	if err != nil {
		return err
	}

	var yb bounds
	for i := range values {
		yb.add(values[i].Value)
		color := seriesColor(0)
		values[i].Style = gochart.Style{FillColor: color, StrokeColor: color}
	}

	graph := gochart.BarChart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: background(opts.Title),
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis:      gochart.YAxis{Name: opts.AxisYTitle},
		Bars:       values,
	}
	if r := yb.rangeOrNil(true); r != nil {
		graph.YAxis.Range = r
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return renderFailed(opts.Type, err)
	}
	return nil
}

// drawStackedColumns draws one stacked bar per category with one segment per
// group.
func drawStackedColumns(w io.Writer, opts chart.Options, p *pivot) error {
	width, height := opts.Size()
	barWidth, spacing, err := barLayout(width, len(p.categories))
	if err != nil {
		return err
	}

	bars := make([]gochart.StackedBar, len(p.categories))
	for ci, label := range p.categories {
		segments := make([]gochart.Value, 0, len(p.groups))
		for gi, group := range p.groups {
			v := p.values[gi][ci]
			if math.IsNaN(v) {
				continue
			}
			if v < 0 {
				return errors.Renderf("%s chart: grouped values must not be negative (%s/%s)", opts.Type, label, group)
			}
			color := seriesColor(gi)
			segments = append(segments, gochart.Value{
				Label: group,
				Value: v,
				Style: gochart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars[ci] = gochart.StackedBar{Name: label, Width: barWidth, Values: segments}
	}

	graph := gochart.StackedBarChart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: background(opts.Title),
		BarSpacing: spacing,
		Bars:       bars,
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return renderFailed(opts.Type, err)
	}
	return nil
}
