// Package convert implements the raw-to-physical conversion engine
// (component G): dispatch over descriptor.ConversionKind, one function per
// active kind, identity pass-through for everything else.
package convert

import (
	"math"
	"sort"

	"github.com/arloliu/mdf/descriptor"
	"github.com/arloliu/mdf/errs"
	"github.com/arloliu/mdf/record"
)

// PhysicalColumn is a converted channel: exactly one of Float or Text holds
// data, matching the conversion kind's output shape.
type PhysicalColumn struct {
	Float      []float64
	Text       []string
	RawPreserved bool // true when the raw values were passed through unscaled (identity)
}

// Apply converts col per spec, dispatching on conv.Kind. Per-channel
// conversion failures (InvalidConversion, FeatureUnavailable) are returned
// as errors rather than aborting the data group; mdf's group readers keep
// the raw values for such a channel and do not report the error further.
func Apply(col *record.Column, conv descriptor.ConversionSpec) (PhysicalColumn, error) {
	switch conv.Kind {
	case descriptor.KindLinear:
		return linear(col, conv), nil
	case descriptor.KindTabInterp:
		return tabInterp(col, conv), nil
	case descriptor.KindTab:
		return tab(col, conv), nil
	case descriptor.KindRationalOffset:
		return rationalOffset(col, conv), nil
	case descriptor.KindExp:
		return expLog(col, conv, math.Exp)
	case descriptor.KindLog:
		return expLog(col, conv, math.Log)
	case descriptor.KindRationalQuad:
		return rationalQuadratic(col, conv), nil
	case descriptor.KindTextFormula:
		return textFormula(col, conv)
	case descriptor.KindTextRangeTable:
		return textRangeTable(col, conv), nil
	default:
		return identity(col), nil
	}
}

func identity(col *record.Column) PhysicalColumn {
	out := PhysicalColumn{RawPreserved: true}
	if col.Text != nil {
		out.Text = make([]string, len(col.Text))
		copy(out.Text, col.Text)

		return out
	}

	n := col.Len()
	out.Float = make([]float64, n)
	for i := 0; i < n; i++ {
		out.Float[i] = col.NumericAt(i)
	}

	return out
}

// linear implements phys = raw*P2 + P1, with the P2==1,P1==0 identity
// short-circuit that passes the raw values through unscaled and sets
// RawPreserved. The values are still widened to float64, so the raw integer
// dtype itself is not kept.
func linear(col *record.Column, conv descriptor.ConversionSpec) PhysicalColumn {
	if conv.P2 == 1.0 && (conv.P1 == 0.0 || conv.P1 == math.Copysign(0, -1)) {
		return identity(col)
	}

	n := col.Len()
	out := PhysicalColumn{Float: make([]float64, n)}
	for i := 0; i < n; i++ {
		out.Float[i] = col.NumericAt(i)*conv.P2 + conv.P1
	}

	return out
}

// tabInterp performs piecewise-linear interpolation over conv.Table, sorted
// by X, clamping to the endpoint values outside the table's range.
func tabInterp(col *record.Column, conv descriptor.ConversionSpec) PhysicalColumn {
	table := sortedTable(conv.Table)
	n := col.Len()
	out := PhysicalColumn{Float: make([]float64, n)}

	for i := 0; i < n; i++ {
		out.Float[i] = interpolate(table, col.NumericAt(i))
	}

	return out
}

func interpolate(table []descriptor.TablePair, x float64) float64 {
	if len(table) == 0 {
		return 0
	}
	if x <= table[0].X {
		return table[0].Y
	}
	if x >= table[len(table)-1].X {
		return table[len(table)-1].Y
	}

	idx := sort.Search(len(table), func(i int) bool { return table[i].X >= x })
	if table[idx].X == x {
		return table[idx].Y
	}

	lo, hi := table[idx-1], table[idx]
	frac := (x - lo.X) / (hi.X - lo.X)

	return lo.Y + frac*(hi.Y-lo.Y)
}

// tab performs a searchsorted lookup into conv.Table's X: each output is the
// Y of the first entry whose X is not less than the input, or the last
// entry's Y when the input exceeds every X.
func tab(col *record.Column, conv descriptor.ConversionSpec) PhysicalColumn {
	table := sortedTable(conv.Table)
	n := col.Len()
	out := PhysicalColumn{Float: make([]float64, n)}

	xs := make([]float64, len(table))
	for i, p := range table {
		xs[i] = p.X
	}

	for i := 0; i < n; i++ {
		x := col.NumericAt(i)
		idx := sort.SearchFloat64s(xs, x)
		if idx >= len(table) {
			idx = len(table) - 1
		}
		out.Float[i] = table[idx].Y
	}

	return out
}

func sortedTable(table []descriptor.TablePair) []descriptor.TablePair {
	out := make([]descriptor.TablePair, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })

	return out
}

// rationalOffset implements the kind-6 formula, historically mislabeled
// "polynomial" in the format's own comments; it is rational, and the
// formula is implemented as written, not as the name suggests.
func rationalOffset(col *record.Column, conv descriptor.ConversionSpec) PhysicalColumn {
	n := col.Len()
	out := PhysicalColumn{Float: make([]float64, n)}

	for i := 0; i < n; i++ {
		x := col.NumericAt(i)
		shifted := x - conv.P5 - conv.P6
		out.Float[i] = (conv.P2 - conv.P4*shifted) / (conv.P3*shifted - conv.P1)
	}

	return out
}

// expLog implements the shared Exp/Log branch structure: fn is math.Exp or
// math.Log.
func expLog(col *record.Column, conv descriptor.ConversionSpec, fn func(float64) float64) (PhysicalColumn, error) {
	branchA := conv.P4 == 0 && conv.P1 != 0 && conv.P2 != 0
	branchB := conv.P1 == 0 && conv.P4 != 0 && conv.P5 != 0

	if !branchA && !branchB {
		return PhysicalColumn{}, errs.ErrInvalidConversion
	}

	n := col.Len()
	out := PhysicalColumn{Float: make([]float64, n)}

	for i := 0; i < n; i++ {
		x := col.NumericAt(i)
		if branchA {
			out.Float[i] = fn(((x-conv.P7)*conv.P6-conv.P3)/conv.P1) / conv.P2
		} else {
			out.Float[i] = fn((conv.P3/(x-conv.P7)-conv.P6)/conv.P4) / conv.P5
		}
	}

	return out, nil
}

// rationalQuadratic implements kind 9: (P1x²+P2x+P3)/(P4x²+P5x+P6).
func rationalQuadratic(col *record.Column, conv descriptor.ConversionSpec) PhysicalColumn {
	n := col.Len()
	out := PhysicalColumn{Float: make([]float64, n)}

	for i := 0; i < n; i++ {
		x := col.NumericAt(i)
		num := conv.P1*x*x + conv.P2*x + conv.P3
		den := conv.P4*x*x + conv.P5*x + conv.P6
		out.Float[i] = num / den
	}

	return out
}

// textRangeTable implements kind 12: output[i] is the text of the first
// range (from index 1) containing input[i], or the index-0 default if none
// matches. First-match order is preserved even when ranges overlap.
func textRangeTable(col *record.Column, conv descriptor.ConversionSpec) PhysicalColumn {
	var def string
	ranges := conv.Ranges
	if len(ranges) > 0 {
		def = ranges[0].Text
		ranges = ranges[1:]
	}

	n := col.Len()
	out := PhysicalColumn{Text: make([]string, n)}

	for i := 0; i < n; i++ {
		x := col.NumericAt(i)
		out.Text[i] = def

		for _, r := range ranges {
			if x >= r.Lower && x <= r.Upper {
				out.Text[i] = r.Text

				break
			}
		}
	}

	return out
}
