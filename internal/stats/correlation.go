package stats

import "math"

// PearsonCorrelation calculates the Pearson correlation coefficient between two variables.
// ok is false when the coefficient is undefined: mismatched lengths, fewer than
// two observations, or a constant variable.
func PearsonCorrelation(x, y []float64) (r float64, ok bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}

	meanX, _ := Mean(x)
	meanY, _ := Mean(y)

	var sumXY, sumX2, sumY2 float64
	for i := 0; i < len(x); i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sumXY += dx * dy
		sumX2 += dx * dx
		sumY2 += dy * dy
	}

	if sumX2 == 0 || sumY2 == 0 {
		return 0, false
	}

	r = sumXY / math.Sqrt(sumX2*sumY2)
	// Clamp rounding drift
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}

// CorrelationMatrix calculates the pairwise Pearson matrix of the given columns.
// Undefined coefficients are returned as nil.
func CorrelationMatrix(columns [][]float64) [][]*float64 {
	n := len(columns)
	matrix := make([][]*float64, n)
	for i := range matrix {
		matrix[i] = make([]*float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r, ok := PearsonCorrelation(columns[i], columns[j])
			if !ok {
				continue
			}
			v := r
			matrix[i][j] = &v
			matrix[j][i] = &v
		}
	}

	return matrix
}
