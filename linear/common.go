package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/core/parallel"
	"github.com/YuminosukeSato/aenet/pkg/errors"
)

// 並列処理の閾値（この値以下の行数では逐次処理を使用）
const parallelThreshold = 1000

// validateFitInputs はFitに渡された訓練データを検証する
// 成功時はサンプル数・特徴量数と、列ベクトルyをスライスに展開したものを返す
func validateFitInputs(op string, X, y mat.Matrix) (nSamples, nFeatures int, yVec []float64, err error) {
	nSamples, nFeatures = X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return 0, 0, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return 0, 0, nil, errors.NewDimensionError(op, nSamples, yRows, 0)
	}
	if yCols != 1 {
		return 0, 0, nil, errors.NewValueError(op, "y must be a column vector")
	}

	if err := errors.CheckFinite(op, X); err != nil {
		return 0, 0, nil, err
	}

	yVec = make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		yVec[i] = y.At(i, 0)
	}
	if err := errors.CheckFiniteSlice(op, yVec); err != nil {
		return 0, 0, nil, err
	}

	return nSamples, nFeatures, yVec, nil
}

// predictLinear は ŷ = X·coef + intercept を計算する
func predictLinear(X mat.Matrix, coef []float64, intercept float64) *mat.Dense {
	nSamples, nFeatures := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)

	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := intercept
			for j := 0; j < nFeatures; j++ {
				pred += X.At(i, j) * coef[j]
			}
			predictions.Set(i, 0, pred)
		}
	})

	return predictions
}

// validatePenalty はペナルティ系ハイパーパラメータを検証する
func validatePenalty(alpha, l1Ratio, tol float64, maxIter int) error {
	if alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", alpha)
	}
	if l1Ratio < 0 || l1Ratio > 1 {
		return errors.NewValidationError("l1_ratio", "must be in [0, 1]", l1Ratio)
	}
	if tol <= 0 {
		return errors.NewValidationError("tol", "must be positive", tol)
	}
	if maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", maxIter)
	}
	return nil
}
