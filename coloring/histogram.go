package coloring

// DefaultBuckets is the histogram resolution used for equalization.
const DefaultBuckets = 1024

// bucket returns the bucket of v in [0, 1]. Values outside the range are
// clamped to the first or last bucket.
func bucket(v float64, buckets int) int {
	b := int(v * float64(buckets))
	return min(max(b, 0), buckets-1)
}

// Histogram counts values in [0, 1] into buckets equal-width bins.
func Histogram(values []float64, buckets int) []uint64 {
	h := make([]uint64, buckets)
	for _, v := range values {
		h[bucket(v, buckets)]++
	}
	return h
}

// Cumulate turns a histogram into its cumulative distribution: entry i is the
// fraction of values in buckets 0..i. The result is non-decreasing and ends
// at 1 unless the histogram is empty, in which case it is all zeros.
func Cumulate(h []uint64) []float64 {
	var total uint64
	for _, n := range h {
		total += n
	}

	cdf := make([]float64, len(h))
	if total == 0 {
		return cdf
	}
	var acc uint64
	for i, n := range h {
		acc += n
		cdf[i] = float64(acc) / float64(total)
	}
	cdf[len(cdf)-1] = 1
	return cdf
}

// Lookup returns the cumulative fraction of the bucket holding v.
func Lookup(v float64, cdf []float64) float64 {
	return cdf[bucket(v, len(cdf))]
}
