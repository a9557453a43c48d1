package chart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"chartsrv/internal/pkg/errors"
)

// Kind is the chart type named by the request's "type" field.
type Kind string

const (
	KindLine      Kind = "line"
	KindArea      Kind = "area"
	KindColumn    Kind = "column"
	KindBar       Kind = "bar"
	KindPie       Kind = "pie"
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
)

// Known reports whether k has a typed variant.
func (k Kind) Known() bool {
	switch k {
	case KindLine, KindArea, KindColumn, KindBar, KindPie, KindScatter, KindHistogram:
		return true
	}
	return false
}

const (
	DefaultWidth  = 600
	DefaultHeight = 400

	// MaxDimension bounds width and height in pixels.
	MaxDimension = 4096
)

// Options are the fields shared by every chart kind.
type Options struct {
	Type       string `json:"type"`
	Title      string `json:"title,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	AxisXTitle string `json:"axisXTitle,omitempty"`
	AxisYTitle string `json:"axisYTitle,omitempty"`
}

// Common returns the shared options.
func (o Options) Common() Options { return o }

// Size returns width and height, falling back to the defaults for
// non-positive values.
func (o Options) Size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Spec is the decoded render request. The concrete type is one of the
// *Spec variants below, or *OpaqueSpec for kinds without a typed variant.
type Spec interface {
	Kind() Kind
	Common() Options
}

// Label is a category or time label that may be sent as a string or number.
type Label string

func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*l = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("label must be a string or number, got %s", b)
	}
	*l = Label(n.String())
	return nil
}

// SeriesPoint is one value of a line or area chart.
type SeriesPoint struct {
	Time  Label   `json:"time"`
	Value float64 `json:"value"`
	Group string  `json:"group,omitempty"`
}

// CategoryPoint is one value of a column, bar or pie chart.
type CategoryPoint struct {
	Category Label   `json:"category"`
	Value    float64 `json:"value"`
	Group    string  `json:"group,omitempty"`
}

// ScatterPoint is one x/y pair.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LineSpec struct {
	Options
	Data []SeriesPoint `json:"data"`
}

func (*LineSpec) Kind() Kind { return KindLine }

type AreaSpec struct {
	Options
	Data  []SeriesPoint `json:"data"`
	Stack bool          `json:"stack,omitempty"`
}

func (*AreaSpec) Kind() Kind { return KindArea }

// ColumnSpec draws vertical bars. Group and Stack only matter when the data
// carries a group field.
type ColumnSpec struct {
	Options
	Data  []CategoryPoint `json:"data"`
	Group bool            `json:"group,omitempty"`
	Stack bool            `json:"stack,omitempty"`
}

func (*ColumnSpec) Kind() Kind { return KindColumn }

// BarSpec shares the column layout.
type BarSpec struct {
	ColumnSpec
}

func (*BarSpec) Kind() Kind { return KindBar }

type PieSpec struct {
	Options
	Data        []CategoryPoint `json:"data"`
	InnerRadius float64         `json:"innerRadius,omitempty"`
}

func (*PieSpec) Kind() Kind { return KindPie }

type ScatterSpec struct {
	Options
	Data []ScatterPoint `json:"data"`
}

func (*ScatterSpec) Kind() Kind { return KindScatter }

type HistogramSpec struct {
	Options
	Data      []float64 `json:"data"`
	BinNumber int       `json:"binNumber,omitempty"`
}

func (*HistogramSpec) Kind() Kind { return KindHistogram }

// OpaqueSpec carries a kind this service has no typed variant for. The
// fields are passed through untouched.
type OpaqueSpec struct {
	Options
	Fields map[string]json.RawMessage
}

func (s *OpaqueSpec) Kind() Kind { return Kind(s.Type) }

// Spec decodes the request into its variant. A known kind whose fields do not
// decode is a render failure, not a validation failure.
func (r *Request) Spec() (Spec, error) {
	var s Spec
	switch r.Kind() {
	case KindLine:
		s = &LineSpec{}
	case KindArea:
		s = &AreaSpec{}
	case KindColumn:
		s = &ColumnSpec{}
	case KindBar:
		s = &BarSpec{}
	case KindPie:
		s = &PieSpec{}
	case KindScatter:
		s = &ScatterSpec{}
	case KindHistogram:
		s = &HistogramSpec{}
	default:
		opaque := &OpaqueSpec{Fields: r.Fields}
		_ = r.decodeInto(&opaque.Options)
		opaque.Type = r.Type
		return opaque, nil
	}

	if err := r.decodeInto(s); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeRender, "chart.decode",
			fmt.Sprintf("invalid %s chart options: %v", r.Type, err))
	}
	return s, nil
}
