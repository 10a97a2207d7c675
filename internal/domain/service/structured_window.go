package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

var (
	hundred = decimal.NewFromInt(100)
	days    = decimal.NewFromInt(365)
)

// window gives a rule access to the analysed fiscal year (offset 0) and the
// years before it (offset 1, 2). Every value read is recorded as a numeric
// input, every absent value as missing.
type window struct {
	periods map[int]model.FinancialPeriod
	inputs  map[string]decimal.Decimal
	missing []string
	year    int
}

func newWindow(periods map[int]model.FinancialPeriod, year int) *window {
	return &window{periods: periods, year: year, inputs: make(map[string]decimal.Decimal)}
}

func (w *window) get(offset int, item model.LineItem) decimal.Decimal {
	fy := w.year - offset
	p, ok := w.periods[fy]
	if !ok {
		w.missing = append(w.missing, fmt.Sprintf("%s FY%d", item, fy))
		return decimal.Zero
	}
	v, ok := p.Value(item)
	if !ok {
		w.missing = append(w.missing, fmt.Sprintf("%s FY%d", item, fy))
		return decimal.Zero
	}
	w.inputs[fmt.Sprintf("%s_fy%d", item, fy)] = v
	return v
}

func (w *window) complete() bool {
	return len(w.missing) == 0
}

// outcome is what a rule reports. A non-empty skip means NOT EVALUATED.
type outcome struct {
	inputs    map[string]decimal.Decimal
	evidence  string
	skip      string
	triggered bool
}

func (w *window) result(triggered bool, format string, args ...any) outcome {
	return outcome{triggered: triggered, evidence: fmt.Sprintf(format, args...), inputs: w.inputs}
}

func (w *window) incomplete() outcome {
	return outcome{skip: "missing " + strings.Join(w.missing, ", "), inputs: w.inputs}
}

func (w *window) skip(format string, args ...any) outcome {
	return outcome{skip: fmt.Sprintf(format, args...), inputs: w.inputs}
}

// ratio divides a by b; ok is false when b is zero.
func ratio(a, b decimal.Decimal) (decimal.Decimal, bool) {
	if b.IsZero() {
		return decimal.Zero, false
	}
	return a.Div(b), true
}

// growth is the relative change from prev to cur; ok is false when prev is zero.
func growth(cur, prev decimal.Decimal) (decimal.Decimal, bool) {
	if prev.IsZero() {
		return decimal.Zero, false
	}
	return cur.Sub(prev).Div(prev.Abs()), true
}

func pct(r decimal.Decimal) string {
	return r.Mul(hundred).StringFixed(1) + "%"
}
