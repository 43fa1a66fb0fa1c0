package geom

// ToPercent converts a pixel value to a 0-100 percentage of dimension.
// A zero dimension yields 0 rather than Inf.
func ToPercent(pixel, dimension float64) float64 {
	if dimension == 0 {
		return 0
	}
	return pixel / dimension * 100
}

// FromPercent converts a 0-100 percentage of dimension back to pixels.
func FromPercent(percent, dimension float64) float64 {
	return percent * dimension / 100
}

// Clamp bounds v to [lo, hi]. When hi < lo the lower bound wins, which is what
// callers want for elements larger than their container.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
