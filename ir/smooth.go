package ir

import "math"

// minSmoothLength is the series length below which smoothing is skipped
// entirely and the raw absorbance values are used as-is.
const minSmoothLength = 5

// SavitzkyGolay smooths a series with a local least-squares polynomial fit
// of the given window length and order. The window is shrunk to the
// largest odd value that fits the series; a series shorter than
// minSmoothLength is returned unchanged (copied). Near the boundaries the
// window is shifted inward and the fitted polynomial evaluated at the
// boundary sample, so the output always has the input's length.
func SavitzkyGolay(values []float64, window, order int) []float64 {
	n := len(values)
	out := make([]float64, n)
	copy(out, values)

	if n < minSmoothLength {
		return out
	}

	if window > n {
		window = n
	}
	if window%2 == 0 {
		window--
	}
	if window < minSmoothLength {
		window = minSmoothLength
	}
	if order >= window {
		order = window - 1
	}
	if order < 0 {
		order = 0
	}

	half := window / 2
	xs := make([]float64, window)
	ys := make([]float64, window)

	for i := 0; i < n; i++ {
		start := i - half
		if start < 0 {
			start = 0
		}
		if start > n-window {
			start = n - window
		}

		for k := 0; k < window; k++ {
			xs[k] = float64(start + k - i)
			ys[k] = values[start+k]
		}

		coeffs, ok := polyFit(xs, ys, order)
		if !ok {
			continue // singular fit, keep the raw sample
		}
		out[i] = coeffs[0] // polynomial value at x = 0, i.e. at sample i
	}

	return out
}

// polyFit solves the least-squares polynomial fit of the given order via
// the normal equations. Returns the coefficients lowest order first and
// false when the system is singular.
func polyFit(xs, ys []float64, order int) ([]float64, bool) {
	m := order + 1

	// Accumulate the moment sums sum(x^p) for p in [0, 2*order] and the
	// right-hand side sums sum(y * x^p).
	moments := make([]float64, 2*order+1)
	rhs := make([]float64, m)
	for i, x := range xs {
		xp := 1.0
		for p := 0; p <= 2*order; p++ {
			moments[p] += xp
			if p < m {
				rhs[p] += ys[i] * xp
			}
			xp *= x
		}
	}

	// Normal equations matrix A[r][c] = sum(x^(r+c)).
	a := make([][]float64, m)
	for r := 0; r < m; r++ {
		a[r] = make([]float64, m+1)
		for c := 0; c < m; c++ {
			a[r][c] = moments[r+c]
		}
		a[r][m] = rhs[r]
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < m; col++ {
		pivot := col
		for r := col + 1; r < m; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := col + 1; r < m; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c <= m; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}

	coeffs := make([]float64, m)
	for r := m - 1; r >= 0; r-- {
		sum := a[r][m]
		for c := r + 1; c < m; c++ {
			sum -= a[r][c] * coeffs[c]
		}
		coeffs[r] = sum / a[r][r]
	}

	return coeffs, true
}
