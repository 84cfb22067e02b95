package parallel

// Band is a half-open range of image rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Height returns the number of rows in the band.
func (b Band) Height() int { return b.Y1 - b.Y0 }

// SplitRows divides height rows into at most n contiguous bands of nearly
// equal size. Earlier bands get the extra row when height is not a
// multiple of n. It returns nil for a non-positive height.
func SplitRows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height))
	bands := make([]Band, n)
	base, extra := height/n, height%n
	y := 0
	for i := range bands {
		h := base
		if i < extra {
			h++
		}
		bands[i] = Band{Y0: y, Y1: y + h}
		y += h
	}
	return bands
}

// bandsPerWorker oversubscribes the pool so that work stealing can even
// out bands that take longer than others.
const bandsPerWorker = 4

// ForEachRowBand calls fn once per band covering rows [0, height) and
// returns after every call has finished.
func (p *WorkerPool) ForEachRowBand(height int, fn func(b Band)) {
	bands := SplitRows(height, p.workers*bandsPerWorker)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
