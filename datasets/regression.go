// Package datasets は回帰モデルの学習・評価用の合成データ生成を提供する
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/pkg/errors"
)

// MakeRegression はスパースな線形信号を持つ回帰データセットを生成する
//
// nInformative個の特徴量だけが非ゼロ係数を持ち、残りはノイズ特徴量となる。
// 同じシードを与えれば常に同じデータが得られる。
//
// パラメータ:
//   - nSamples: サンプル数
//   - nFeatures: 特徴量の数
//   - nInformative: 目的変数に寄与する特徴量の数
//   - noise: 目的変数に加えるガウスノイズの標準偏差
//   - seed: 乱数シード
//
// 戻り値:
//   - X: nSamples × nFeatures の計画行列
//   - y: nSamples × 1 の目的変数
//   - coef: 生成に使われた真の係数ベクトル（長さ nFeatures）
func MakeRegression(nSamples, nFeatures, nInformative int, noise float64, seed uint64) (*mat.Dense, *mat.Dense, []float64, error) {
	if nSamples <= 0 {
		return nil, nil, nil, errors.NewValidationError("nSamples", "must be positive", nSamples)
	}
	if nFeatures <= 0 {
		return nil, nil, nil, errors.NewValidationError("nFeatures", "must be positive", nFeatures)
	}
	if nInformative < 0 || nInformative > nFeatures {
		return nil, nil, nil, errors.NewValidationError("nInformative", "must be in [0, nFeatures]", nInformative)
	}
	if noise < 0 {
		return nil, nil, nil, errors.NewValidationError("noise", "must be non-negative", noise)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	// 標準正規分布に従う計画行列を生成
	X := mat.NewDense(nSamples, nFeatures, nil)
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
	}

	// 真の係数: ランダムに選んだnInformative個の位置に[1, 100)の値を置く
	coef := make([]float64, nFeatures)
	perm := rng.Perm(nFeatures)
	for k := 0; k < nInformative; k++ {
		coef[perm[k]] = 1.0 + 99.0*rng.Float64()
	}

	// y = X * coef + noise
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		sum := 0.0
		for j := 0; j < nFeatures; j++ {
			sum += X.At(i, j) * coef[j]
		}
		if noise > 0 {
			sum += rng.NormFloat64() * noise
		}
		y.Set(i, 0, sum)
	}

	return X, y, coef, nil
}

// TrainTestSplit はデータセットをシャッフルして訓練用と評価用に分割する
//
// testSizeは(0, 1)の割合で指定する。分割はシードに対して決定的である。
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed uint64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}

	n, nFeatures := X.Dims()
	ny, yCols := y.Dims()
	if ny != n {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", n, ny, 0)
	}
	if n < 2 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "need at least 2 samples to split")
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	indices := rng.Perm(n)

	nTest := int(float64(n) * testSize)
	if nTest < 1 {
		nTest = 1
	}
	nTrain := n - nTest

	copyRows := func(dstX, dstY *mat.Dense, idx []int) {
		for i, src := range idx {
			for j := 0; j < nFeatures; j++ {
				dstX.Set(i, j, X.At(src, j))
			}
			for j := 0; j < yCols; j++ {
				dstY.Set(i, j, y.At(src, j))
			}
		}
	}

	XTrain = mat.NewDense(nTrain, nFeatures, nil)
	yTrain = mat.NewDense(nTrain, yCols, nil)
	XTest = mat.NewDense(nTest, nFeatures, nil)
	yTest = mat.NewDense(nTest, yCols, nil)

	copyRows(XTrain, yTrain, indices[:nTrain])
	copyRows(XTest, yTest, indices[nTrain:])

	return XTrain, XTest, yTrain, yTest, nil
}
