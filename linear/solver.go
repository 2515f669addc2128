package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/pkg/errors"
)

// cdProblem は座標降下法で解く重み付きelastic net問題
//
// 目的関数:
//
//	(1/2n)·Σ_i (y_i - x_i·b)² + alpha·l1Ratio·Σ_j w_j·|b_j| + alpha·(1-l1Ratio)·Σ_j b_j²
//
// l1Weightsがnilの場合は全てのw_jを1として扱う（通常のelastic net）。
// Xとyは呼び出し側で中心化済みであること（切片はこの問題に含まれない）。
type cdProblem struct {
	alpha     float64
	l1Ratio   float64
	l1Weights []float64
	positive  bool
	maxIter   int
	tol       float64
}

// solve は巡回座標降下法を実行し、係数ベクトルと実行したスイープ数を返す
//
// 各座標jの更新は閉形式で行う:
//
//	z_j   = (1/n)·x_j·r + (||x_j||²/n)·b_j
//	b_j ← S(z_j, alpha·l1Ratio·w_j) / (||x_j||²/n + 2·alpha·(1-l1Ratio))
//
// S はソフト閾値作用素。positive制約がある場合は正の枝のみを使う
// （射影付き座標降下）。収束判定は1スイープでの係数の最大変化量がtol未満。
func (p *cdProblem) solve(X *mat.Dense, y []float64) ([]float64, int, error) {
	nSamples, nFeatures := X.Dims()

	// 列ごとの二乗ノルムを前計算
	colSq := make([]float64, nFeatures)
	cols := make([][]float64, nFeatures)
	for j := 0; j < nFeatures; j++ {
		col := make([]float64, nSamples)
		mat.Col(col, j, X)
		cols[j] = col
		colSq[j] = floats.Dot(col, col)
	}

	n := float64(nSamples)
	l1 := p.alpha * p.l1Ratio
	l2 := p.alpha * (1 - p.l1Ratio)

	coef := make([]float64, nFeatures)
	residuals := make([]float64, nSamples)
	copy(residuals, y)

	iter := 0
	for ; iter < p.maxIter; iter++ {
		maxDelta := 0.0

		for j := 0; j < nFeatures; j++ {
			denom := colSq[j]/n + 2*l2
			if denom <= 0 {
				// 中心化後に分散が残らない列。係数は0のまま
				continue
			}

			old := coef[j]
			z := floats.Dot(cols[j], residuals)/n + colSq[j]/n*old

			threshold := l1
			if p.l1Weights != nil {
				threshold = l1 * p.l1Weights[j]
			}

			var updated float64
			if p.positive {
				// 非負制約下ではソフト閾値の正の枝のみが許される
				updated = (z - threshold) / denom
				if updated < 0 {
					updated = 0
				}
			} else {
				updated = softThreshold(z, threshold) / denom
			}

			if math.IsNaN(updated) || math.IsInf(updated, 0) {
				return nil, iter, errors.NewSolverError("coordinate descent", iter, "coefficient update diverged")
			}

			if updated != old {
				delta := updated - old
				floats.AddScaled(residuals, -delta, cols[j])
				coef[j] = updated
				if math.Abs(delta) > maxDelta {
					maxDelta = math.Abs(delta)
				}
			}
		}

		if maxDelta < p.tol {
			return coef, iter + 1, nil
		}
	}

	// maxIterに達した。係数は返しつつ警告を発生させる
	errors.Warn(errors.NewConvergenceWarning("coordinate descent", p.maxIter, ""))
	return coef, iter, nil
}

// softThreshold はソフト閾値作用素 S(z, t) = sign(z)·max(|z|-t, 0)
func softThreshold(z, t float64) float64 {
	switch {
	case z > t:
		return z - t
	case z < -t:
		return z + t
	default:
		return 0
	}
}

// centerData はXとyを中心化した作業用コピーを返す
// 戻り値のxMeansとyMeanは切片の復元に使う
func centerData(X mat.Matrix, y []float64) (Xc *mat.Dense, yc, xMeans []float64, yMean float64) {
	nSamples, nFeatures := X.Dims()

	xMeans = make([]float64, nFeatures)
	Xc = mat.NewDense(nSamples, nFeatures, nil)
	for j := 0; j < nFeatures; j++ {
		sum := 0.0
		for i := 0; i < nSamples; i++ {
			sum += X.At(i, j)
		}
		xMeans[j] = sum / float64(nSamples)
		for i := 0; i < nSamples; i++ {
			Xc.Set(i, j, X.At(i, j)-xMeans[j])
		}
	}

	yMean = floats.Sum(y) / float64(len(y))
	yc = make([]float64, len(y))
	for i, v := range y {
		yc[i] = v - yMean
	}

	return Xc, yc, xMeans, yMean
}

// interceptFrom は中心化前のスケールでの切片を計算する
func interceptFrom(coef, xMeans []float64, yMean float64) float64 {
	return yMean - floats.Dot(coef, xMeans)
}
