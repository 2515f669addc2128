package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/datasets"
	"github.com/YuminosukeSato/aenet/pkg/errors"
)

func TestAdaptiveElasticNetCVSelectsAlpha(t *testing.T) {
	X, y := makeLinearData(t, 240, []float64{7.0, 0.0, -3.0, 0.0}, 1.0)

	cv := NewAdaptiveElasticNetCV(
		WithCV(3),
		WithNAlphas(10),
	)
	require.NoError(t, cv.Fit(X, y))

	// 選択されたalphaはグリッド上の値
	assert.Contains(t, cv.Alphas, cv.Alpha)
	assert.Len(t, cv.Alphas, 10)

	// グリッドは降順
	for i := 1; i < len(cv.Alphas); i++ {
		assert.Less(t, cv.Alphas[i], cv.Alphas[i-1])
	}

	// MSEPathの形状は nAlphas × nSplits
	r, c := cv.MSEPath.Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 3, c)

	score, err := cv.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
}

func TestAdaptiveElasticNetCVRefitMatchesManualFit(t *testing.T) {
	X, y := makeLinearData(t, 200, []float64{6.0, 0.0, -2.0}, 0.5)

	cv := NewAdaptiveElasticNetCV(WithCV(3), WithNAlphas(8))
	require.NoError(t, cv.Fit(X, y))

	// 選択されたalphaを手動で渡すと同一の係数が再現される
	manual := NewAdaptiveElasticNet(WithAlpha(cv.Alpha))
	require.NoError(t, manual.Fit(X, y))

	assert.Equal(t, manual.Coef(), cv.Coef())
	assert.Equal(t, manual.Intercept(), cv.Intercept())
}

func TestAdaptiveElasticNetCVExplicitAlphas(t *testing.T) {
	X, y := makeLinearData(t, 150, []float64{5.0, -1.0}, 0.0)

	cv := NewAdaptiveElasticNetCV(
		WithCV(3),
		WithAlphas([]float64{0.01, 1.0, 0.1}),
	)
	require.NoError(t, cv.Fit(X, y))

	// ユーザ指定グリッドは降順に並べ替えられる
	assert.Equal(t, []float64{1.0, 0.1, 0.01}, cv.Alphas)
	assert.Contains(t, cv.Alphas, cv.Alpha)
}

func TestAdaptiveElasticNetCVValidation(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)

	t.Run("too few folds", func(t *testing.T) {
		cv := NewAdaptiveElasticNetCV(WithCV(1))
		assert.Error(t, cv.Fit(X, y))
	})

	t.Run("more folds than samples", func(t *testing.T) {
		cv := NewAdaptiveElasticNetCV(WithCV(11))
		assert.Error(t, cv.Fit(X, y))
	})

	t.Run("negative candidate alpha", func(t *testing.T) {
		cv := NewAdaptiveElasticNetCV(WithAlphas([]float64{0.1, -0.5}))
		assert.Error(t, cv.Fit(X, y))
	})

	t.Run("predict before fit", func(t *testing.T) {
		cv := NewAdaptiveElasticNetCV()
		_, err := cv.Predict(X)
		var nferr *errors.NotFittedError
		require.Error(t, err)
		assert.True(t, errors.As(err, &nferr))
	})
}

// 2000サンプル×100特徴量（うち10個が有効）のシナリオテスト
func TestAdaptiveElasticNetCVSyntheticScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large CV scenario in short mode")
	}

	X, y, _, err := datasets.MakeRegression(2000, 100, 10, 10.0, 7)
	require.NoError(t, err)

	XTrain, XTest, yTrain, yTest, err := datasets.TrainTestSplit(X, y, 0.5, 7)
	require.NoError(t, err)

	cv := NewAdaptiveElasticNetCV(
		WithCV(3),
		WithNAlphas(8),
		WithShuffle(true),
		WithSeed(7),
	)
	require.NoError(t, cv.Fit(XTrain, yTrain))

	pred, err := cv.Predict(XTest)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 1000, r)
	assert.Equal(t, 1, c)

	score, err := cv.Score(XTest, yTest)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(score))
	assert.False(t, math.IsInf(score, 0))
	assert.LessOrEqual(t, score, 1.0)
}
