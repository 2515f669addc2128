package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/pkg/errors"
)

func TestAdaptiveElasticNetDefaults(t *testing.T) {
	ae := NewAdaptiveElasticNet()
	params := ae.GetParams()

	assert.Equal(t, 1.0, params["alpha"])
	assert.Equal(t, 0.5, params["l1_ratio"])
	assert.Equal(t, 1.0, params["gamma"])
	assert.Equal(t, 1e-3, params["eps"])
	assert.Equal(t, true, params["fit_intercept"])
	assert.Equal(t, WeightSourceElasticNet, params["weight_source"])
}

func TestAdaptiveElasticNetFitPredictScore(t *testing.T) {
	trueCoef := []float64{6.0, 0.0, -4.0, 0.0, 3.0}
	X, y := makeLinearData(t, 300, trueCoef, 2.0)

	ae := NewAdaptiveElasticNet(WithAlpha(0.05))
	require.NoError(t, ae.Fit(X, y))

	// 係数ベクトルの長さは特徴量数に等しい
	coef := ae.Coef()
	require.Len(t, coef, len(trueCoef))

	// 予測ベクトルの長さはサンプル数に等しい
	pred, err := ae.Predict(X)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 300, r)
	assert.Equal(t, 1, c)

	// 線形信号のあるデータでは平均予測ベースライン(R²=0)を上回る
	score, err := ae.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestAdaptiveElasticNetSparsity(t *testing.T) {
	// 情報を持つ特徴量は2つだけ
	trueCoef := []float64{8.0, 0.0, 0.0, 0.0, -6.0, 0.0, 0.0, 0.0}
	X, y := makeLinearData(t, 400, trueCoef, 0.0)

	ae := NewAdaptiveElasticNet(WithAlpha(0.5))
	require.NoError(t, ae.Fit(X, y))

	coef := ae.Coef()
	// 真にゼロの係数の多くが正確に0に選択されるはず
	assert.NotZero(t, coef[0])
	assert.NotZero(t, coef[4])

	zeros := 0
	for _, c := range coef {
		if c == 0 {
			zeros++
		}
	}
	assert.GreaterOrEqual(t, zeros, 4, "adaptive penalty should zero out most noise features")
}

func TestAdaptiveElasticNetShrinkageMonotonic(t *testing.T) {
	X, y := makeLinearData(t, 200, []float64{5.0, -3.0, 2.0, 0.0}, 1.0)

	prev := math.Inf(1)
	for _, alpha := range []float64{0.01, 0.1, 1.0, 10.0, 100.0} {
		ae := NewAdaptiveElasticNet(WithAlpha(alpha))
		require.NoError(t, ae.Fit(X, y))

		l1 := 0.0
		for _, c := range ae.Coef() {
			l1 += math.Abs(c)
		}
		assert.LessOrEqual(t, l1, prev+1e-6, "L1 norm should not increase with alpha=%g", alpha)
		prev = l1
	}
}

func TestAdaptiveElasticNetWeights(t *testing.T) {
	X, y := makeLinearData(t, 200, []float64{10.0, 0.0, 1.0}, 0.0)

	ae := NewAdaptiveElasticNet(WithAlpha(0.1))
	require.NoError(t, ae.Fit(X, y))

	w := ae.AdaptiveWeights()
	require.Len(t, w, 3)

	// 重みの上限は 1/eps^gamma
	bound := 1.0 / math.Pow(1e-3, 1.0)
	for j, wj := range w {
		assert.Greater(t, wj, 0.0)
		assert.LessOrEqual(t, wj, bound+1e-9, "weight[%d]", j)
	}

	// 大きなパイロット係数ほど小さな重みを持つ
	assert.Less(t, w[0], w[1])
}

func TestAdaptiveElasticNetOLSWeightSource(t *testing.T) {
	X, y := makeLinearData(t, 200, []float64{4.0, 0.0, -2.0}, 1.0)

	ae := NewAdaptiveElasticNet(
		WithAlpha(0.1),
		WithWeightSource(WeightSourceOLS),
	)
	require.NoError(t, ae.Fit(X, y))

	score, err := ae.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.5)
}

func TestAdaptiveElasticNetInvalidWeightSource(t *testing.T) {
	X, y := makeLinearData(t, 50, []float64{1.0}, 0.0)

	ae := NewAdaptiveElasticNet(WithWeightSource("ridge"))
	err := ae.Fit(X, y)
	var verr *errors.ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))
}

func TestAdaptiveElasticNetPositive(t *testing.T) {
	X, y := makeLinearData(t, 200, []float64{3.0, -5.0, 1.0}, 0.0)

	ae := NewAdaptiveElasticNet(WithAlpha(0.1), WithPositive(true))
	require.NoError(t, ae.Fit(X, y))

	for j, c := range ae.Coef() {
		assert.GreaterOrEqual(t, c, 0.0, "coef[%d]", j)
	}
}

func TestAdaptiveElasticNetHyperparameterValidation(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)

	for name, opt := range map[string]Option{
		"negative gamma": WithGamma(-1.0),
		"zero eps":       WithEps(0),
		"zero max_iter":  WithMaxIter(0),
		"negative tol":   WithTol(-1e-4),
	} {
		t.Run(name, func(t *testing.T) {
			ae := NewAdaptiveElasticNet(opt)
			assert.Error(t, ae.Fit(X, y))
		})
	}
}

func TestAdaptiveElasticNetSolverErrorPropagates(t *testing.T) {
	// パイロット学習でソルバーが発散した場合もSolverErrorとして伝播する
	X := mat.NewDense(4, 1, []float64{1, -1, 1, -1})
	y := mat.NewDense(4, 1, []float64{1e308, -1e308, 1e308, -1e308})

	ae := NewAdaptiveElasticNet()
	err := ae.Fit(X, y)
	var serr *errors.SolverError
	require.Error(t, err)
	assert.True(t, errors.As(err, &serr))
	assert.False(t, ae.IsFitted())
}

func TestAdaptiveElasticNetScoreBeforeFit(t *testing.T) {
	ae := NewAdaptiveElasticNet()
	_, err := ae.Score(mat.NewDense(5, 2, nil), mat.NewDense(5, 1, nil))
	var nferr *errors.NotFittedError
	require.Error(t, err)
	assert.True(t, errors.As(err, &nferr))
}

func TestAdaptiveElasticNetRefitDeterminism(t *testing.T) {
	X, y := makeLinearData(t, 150, []float64{5.0, 0.0, -2.0}, 1.0)

	first := NewAdaptiveElasticNet(WithAlpha(0.3))
	require.NoError(t, first.Fit(X, y))

	second := NewAdaptiveElasticNet(WithAlpha(0.3))
	require.NoError(t, second.Fit(X, y))

	assert.Equal(t, first.Coef(), second.Coef())
	assert.Equal(t, first.Intercept(), second.Intercept())
}
