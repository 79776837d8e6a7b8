package client

import (
	"io"
	"math"
)

// progressReader reports request-body progress as the transport consumes it.
// Percentages follow round(loaded*100/total) and are reported at most once
// per value, strictly increasing, so downstream consumers see a monotone
// sequence ending at 100 when the body has been fully sent.
type progressReader struct {
	r      io.Reader
	total  int64
	loaded int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		pct := int(math.Round(float64(p.loaded) * 100 / float64(p.total)))
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			p.last = pct
			if p.report != nil {
				p.report(pct)
			}
		}
	}
	return n, err
}
