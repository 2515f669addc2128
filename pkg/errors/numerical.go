package errors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CheckFinite は行列の全要素が有限値であることを検証します。
// NaNまたは±Infが含まれる場合はValueErrorを返します。
func CheckFinite(op string, X mat.Matrix) error {
	r, c := X.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewValueError(op, "input contains NaN or Inf")
			}
		}
	}
	return nil
}

// CheckFiniteSlice はスライスの全要素が有限値であることを検証します。
func CheckFiniteSlice(op string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(op, "input contains NaN or Inf")
		}
	}
	return nil
}
