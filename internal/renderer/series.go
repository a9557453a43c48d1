package renderer

import (
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/errors"
)

// maxTicks caps the number of category labels drawn on the x axis.
const maxTicks = 12

// pivot indexes points by category and group in first-seen order. Missing
// cells are NaN.
type pivot struct {
	categories []string
	groups     []string
	values     [][]float64 // [group][category]
}

func newPivot(n int, at func(i int) (category, group string, value float64)) *pivot {
	p := &pivot{}
	catIdx := map[string]int{}
	grpIdx := map[string]int{}

	type cell struct{ c, g int }
	cells := make(map[cell]float64, n)

	for i := 0; i < n; i++ {
		c, g, v := at(i)
		ci, ok := catIdx[c]
		if !ok {
			ci = len(p.categories)
			catIdx[c] = ci
			p.categories = append(p.categories, c)
		}
		gi, ok := grpIdx[g]
		if !ok {
			gi = len(p.groups)
			grpIdx[g] = gi
			p.groups = append(p.groups, g)
		}
		cells[cell{ci, gi}] += v
	}

	p.values = make([][]float64, len(p.groups))
	for gi := range p.groups {
		row := make([]float64, len(p.categories))
		for ci := range row {
			v, ok := cells[cell{ci, gi}]
			if !ok {
				v = math.NaN()
			}
			row[ci] = v
		}
		p.values[gi] = row
	}
	return p
}

func (p *pivot) grouped() bool {
	return len(p.groups) > 1 || (len(p.groups) == 1 && p.groups[0] != "")
}

// stacked replaces each cell with the running total across groups.
func (p *pivot) stacked() {
	for ci := range p.categories {
		sum := 0.0
		for gi := range p.groups {
			v := p.values[gi][ci]
			if math.IsNaN(v) {
				continue
			}
			sum += v
			p.values[gi][ci] = sum
		}
	}
}

// categoryTicks labels category indices. go-chart takes the x range from the
// tick extremes, so the first and last index always get a tick, and a single
// category is flanked by blank ticks at -1 and 1.
func categoryTicks(categories []string) []gochart.Tick {
	if len(categories) == 1 {
		return []gochart.Tick{
			{Value: -1},
			{Value: 0, Label: categories[0]},
			{Value: 1},
		}
	}

	last := len(categories) - 1
	step := 1
	if len(categories) > maxTicks {
		step = (len(categories) + maxTicks - 1) / maxTicks
	}
	ticks := make([]gochart.Tick, 0, len(categories)/step+2)
	for i := 0; i < last; i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: categories[i]})
	}
	return append(ticks, gochart.Tick{Value: float64(last), Label: categories[last]})
}

// bounds tracks the min and max of plotted values.
type bounds struct {
	min, max float64
	set      bool
}

func (b *bounds) add(v float64) {
	if !b.set {
		b.min, b.max, b.set = v, v, true
		return
	}
	b.min = math.Min(b.min, v)
	b.max = math.Max(b.max, v)
}

// rangeOrNil returns an explicit range only when the automatic one would be
// unusable or must include zero.
func (b bounds) rangeOrNil(includeZero bool) gochart.Range {
	lo, hi := b.min, b.max
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if lo == hi {
		return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	if includeZero {
		return &gochart.ContinuousRange{Min: lo, Max: hi}
	}
	return nil
}

func drawSeries(w io.Writer, opts chart.Options, data []chart.SeriesPoint, area, stack bool) error {
	if len(data) == 0 {
		return errors.Renderf("%s chart requires at least one data point", opts.Type)
	}

	p := newPivot(len(data), func(i int) (string, string, float64) {
		return string(data[i].Time), data[i].Group, data[i].Value
	})
	if area && stack {
		p.stacked()
	}

	var yb bounds
	series := make([]gochart.Series, 0, len(p.groups))
	for gi, name := range p.groups {
		var xs, ys []float64
		for ci, v := range p.values[gi] {
			if math.IsNaN(v) {
				continue
			}
			xs = append(xs, float64(ci))
			ys = append(ys, v)
			yb.add(v)
		}

		color := seriesColor(gi)
		style := gochart.Style{StrokeColor: color, StrokeWidth: 2}
		if len(xs) == 1 {
			style.DotColor = color
			style.DotWidth = 4
		}
		if area {
			style.FillColor = color.WithAlpha(96)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    name,
			Style:   style,
			XValues: xs,
			YValues: ys,
		})
	}

	// The topmost stack layer is drawn first so lower layers stay visible.
	if area && stack {
		for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
			series[i], series[j] = series[j], series[i]
		}
	}

	xr := &gochart.ContinuousRange{Min: 0, Max: float64(len(p.categories) - 1)}
	if len(p.categories) == 1 {
		xr = &gochart.ContinuousRange{Min: -1, Max: 1}
	}

	width, height := opts.Size()
	graph := gochart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: background(opts.Title),
		XAxis: gochart.XAxis{
			Name:  opts.AxisXTitle,
			Range: xr,
			Ticks: categoryTicks(p.categories),
		},
		YAxis: gochart.YAxis{
			Name: opts.AxisYTitle,
		},
		Series: series,
	}
	if r := yb.rangeOrNil(area); r != nil {
		graph.YAxis.Range = r
	}
	if p.grouped() {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return renderFailed(opts.Type, err)
	}
	return nil
}

func drawScatter(w io.Writer, s *chart.ScatterSpec) error {
	if len(s.Data) == 0 {
		return errors.Render("scatter chart requires at least one data point")
	}

	xs := make([]float64, len(s.Data))
	ys := make([]float64, len(s.Data))
	var xb, yb bounds
	for i, pt := range s.Data {
		xs[i], ys[i] = pt.X, pt.Y
		xb.add(pt.X)
		yb.add(pt.Y)
	}

	color := seriesColor(0)
	width, height := s.Size()
	graph := gochart.Chart{
		Title:      s.Title,
		Width:      width,
		Height:     height,
		Background: background(s.Title),
		XAxis:      gochart.XAxis{Name: s.AxisXTitle},
		YAxis:      gochart.YAxis{Name: s.AxisYTitle},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Style: gochart.Style{
					StrokeWidth: gochart.Disabled,
					DotWidth:    5,
					DotColor:    color.WithAlpha(200),
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if r := xb.rangeOrNil(false); r != nil {
		graph.XAxis.Range = r
	}
	if r := yb.rangeOrNil(false); r != nil {
		graph.YAxis.Range = r
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return renderFailed(s.Type, err)
	}
	return nil
}
