package renderer

import (
	"context"
	"io"
	"sync"

	"github.com/valyala/bytebufferpool"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/errors"
)

// GoChart rasterizes the typed chart variants with go-chart.
type GoChart struct{}

func NewGoChart() *GoChart {
	return &GoChart{}
}

func (g *GoChart) Render(ctx context.Context, spec chart.Spec) (Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeRender, "renderer.gochart", "render canceled")
	}

	if err := checkSize(spec.Common()); err != nil {
		return nil, err
	}

	img := &pooledImage{buf: bytebufferpool.Get()}
	done := false
	defer func() {
		// Also runs while a drawing panic unwinds.
		if !done {
			img.Release()
		}
	}()

	if err := g.draw(img.buf, spec); err != nil {
		return nil, err
	}
	done = true
	return img, nil
}

func (g *GoChart) draw(w io.Writer, spec chart.Spec) error {
	switch s := spec.(type) {
	case *chart.LineSpec:
		return drawSeries(w, s.Options, s.Data, false, false)
	case *chart.AreaSpec:
		return drawSeries(w, s.Options, s.Data, true, s.Stack)
	case *chart.ColumnSpec:
		return drawColumns(w, s)
	case *chart.BarSpec:
		return drawColumns(w, &s.ColumnSpec)
	case *chart.PieSpec:
		return drawPie(w, s)
	case *chart.ScatterSpec:
		return drawScatter(w, s)
	case *chart.HistogramSpec:
		return drawHistogram(w, s)
	default:
		return errors.Renderf("unsupported chart type %q", spec.Kind())
	}
}

// pooledImage holds PNG bytes in a pooled buffer.
type pooledImage struct {
	mu  sync.Mutex
	buf *bytebufferpool.ByteBuffer
}

func (p *pooledImage) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return nil
	}
	return p.buf.B
}

func (p *pooledImage) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return
	}
	bytebufferpool.Put(p.buf)
	p.buf = nil
}

// checkSize bounds the canvas before go-chart allocates it.
func checkSize(opts chart.Options) error {
	if opts.Width > chart.MaxDimension || opts.Height > chart.MaxDimension {
		return errors.Renderf("chart size %dx%d exceeds the maximum of %dx%d",
			opts.Width, opts.Height, chart.MaxDimension, chart.MaxDimension)
	}
	return nil
}

func renderFailed(kind string, err error) error {
	return errors.WrapWithCode(err, errors.CodeRender, "renderer.gochart", kind+" chart: "+err.Error())
}

func background(title string) gochart.Style {
	if title == "" {
		return gochart.Style{}
	}
	return gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}}
}

// palette is the series color cycle.
var palette = []drawing.Color{
	drawing.ColorFromHex("5B8FF9"),
	drawing.ColorFromHex("5AD8A6"),
	drawing.ColorFromHex("5D7092"),
	drawing.ColorFromHex("F6BD16"),
	drawing.ColorFromHex("E86452"),
	drawing.ColorFromHex("6DC8EC"),
	drawing.ColorFromHex("945FB9"),
	drawing.ColorFromHex("FF9845"),
	drawing.ColorFromHex("1E9493"),
	drawing.ColorFromHex("FF99C3"),
}

func seriesColor(i int) drawing.Color {
	return palette[i%len(palette)]
}
