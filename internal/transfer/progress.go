package transfer

import (
	"io"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// progressReader reports the share of total read so far each time it
// crosses the next multiple of step percent.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	step   decimal.Decimal
	next   decimal.Decimal
	report func(percent decimal.Decimal)
}

func newProgressReader(r io.Reader, total int64, step decimal.Decimal, report func(decimal.Decimal)) io.Reader {
	if total <= 0 || report == nil || !step.IsPositive() {
		return r
	}
	return &progressReader{r: r, total: total, step: step, next: step, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		percent := decimal.NewFromInt(p.read).Mul(hundred).Div(decimal.NewFromInt(p.total)).Round(1)
		if percent.GreaterThan(hundred) {
			percent = hundred
		}
		if percent.GreaterThanOrEqual(p.next) {
			p.report(percent)
			// skip every threshold already passed
			p.next = percent.Div(p.step).Floor().Add(decimal.NewFromInt(1)).Mul(p.step)
		}
	}
	return n, err
}
