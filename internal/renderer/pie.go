package renderer

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/errors"
)

func drawPie(w io.Writer, s *chart.PieSpec) error {
	if len(s.Data) == 0 {
		return errors.Render("pie chart requires at least one data point")
	}

	total := 0.0
	values := make([]gochart.Value, 0, len(s.Data))
	for i, pt := range s.Data {
		if pt.Value < 0 {
			return errors.Renderf("pie chart: value for %q must not be negative", string(pt.Category))
		}
		total += pt.Value
		color := seriesColor(i)
		values = append(values, gochart.Value{
			Label: string(pt.Category),
			Value: pt.Value,
			Style: gochart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, StrokeWidth: 1},
		})
	}
	if total == 0 {
		return errors.Render("pie chart: values sum to zero")
	}

	width, height := s.Size()
	var err error
	if s.InnerRadius > 0 {
		donut := gochart.DonutChart{
			Title:      s.Title,
			Width:      width,
			Height:     height,
			Background: background(s.Title),
			Values:     values,
		}
		err = donut.Render(gochart.PNG, w)
	} else {
		pie := gochart.PieChart{
			Title:      s.Title,
			Width:      width,
			Height:     height,
			Background: background(s.Title),
			Values:     values,
		}
		err = pie.Render(gochart.PNG, w)
	}
	if err != nil {
		return renderFailed(s.Type, err)
	}
	return nil
}
