package renderer

import (
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"chartsrv/internal/chart"
	"chartsrv/internal/pkg/errors"
)

// maxBins bounds the requested bin count.
const maxBins = 100

func drawHistogram(w io.Writer, s *chart.HistogramSpec) error {
	if len(s.Data) == 0 {
		return errors.Render("histogram chart requires at least one value")
	}

	edges, counts, err := binValues(s.Data, s.BinNumber)
	if err != nil {
		return err
	}
	values := make([]gochart.Value, len(counts))
	for i, n := range counts {
		values[i] = gochart.Value{
			Label: formatEdge(edges[i]) + "-" + formatEdge(edges[i+1]),
			Value: float64(n),
		}
	}
	return drawBars(w, s.Options, values)
}

// binValues splits data into equal-width bins. A non-positive bins value
// picks Sturges' rule. Returns len(counts)+1 edges.
func binValues(data []float64, bins int) ([]float64, []int, error) {
	if bins <= 0 {
		bins = int(math.Ceil(math.Log2(float64(len(data))))) + 1
	}
	if bins > maxBins {
		bins = maxBins
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, errors.Render("histogram chart: values must be finite")
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []float64{lo - 0.5, hi + 0.5}, []int{len(data)}, nil
	}

	step := (hi - lo) / float64(bins)
	if math.IsInf(step, 0) || math.IsNaN(step) || step == 0 {
		return nil, nil, errors.Renderf("histogram chart: value range [%g, %g] cannot be binned", lo, hi)
	}

	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[bins] = hi

	counts := make([]int, bins)
	for _, v := range data {
		i := int((v - lo) / step)
		if i < 0 {
			i = 0
		} else if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return edges, counts, nil
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
