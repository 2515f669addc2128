package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/core/model"
	"github.com/YuminosukeSato/aenet/metrics"
	"github.com/YuminosukeSato/aenet/pkg/errors"
	"github.com/YuminosukeSato/aenet/pkg/log"
	"github.com/YuminosukeSato/aenet/preprocessing"
)

// ElasticNet はL1とL2ペナルティを組み合わせた線形回帰モデル
//
// 目的関数:
//
//	(1/2n)·Σ_i (y_i - ŷ_i)² + alpha·l1Ratio·Σ_j |b_j| + alpha·(1-l1Ratio)·Σ_j b_j²
//
// 巡回座標降下法で解く。AdaptiveElasticNetのパイロット推定器としても使われる。
type ElasticNet struct {
	model.BaseEstimator

	opts options

	coef      []float64
	intercept float64
	nFeatures int
	nIter     int
}

// NewElasticNet は新しいElasticNetを作成する
//
// デフォルト: alpha=1.0, l1Ratio=0.5, tol=1e-4, maxIter=1000, fitIntercept=true
func NewElasticNet(opts ...Option) *ElasticNet {
	en := &ElasticNet{
		opts: options{
			alpha:        1.0,
			l1Ratio:      0.5,
			tol:          1e-4,
			maxIter:      1000,
			fitIntercept: true,
		},
	}
	for _, opt := range opts {
		opt(&en.opts)
	}
	return en
}

// Fit はモデルを訓練データで学習させる
func (en *ElasticNet) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "ElasticNet.Fit")

	if err := validatePenalty(en.opts.alpha, en.opts.l1Ratio, en.opts.tol, en.opts.maxIter); err != nil {
		return err
	}

	nSamples, nFeatures, yVec, err := validateFitInputs("ElasticNet.Fit", X, y)
	if err != nil {
		return err
	}
	en.nFeatures = nFeatures

	coef, intercept, nIter, err := fitPenalized(X, yVec, &en.opts, nil)
	if err != nil {
		return err
	}

	en.coef = coef
	en.intercept = intercept
	en.nIter = nIter

	if en.opts.verbose {
		logger := log.GetLoggerWithName("linear")
		logger.Info().
			Str("model", "ElasticNet").
			Int("n_samples", nSamples).
			Int("n_features", nFeatures).
			Int("n_iter", nIter).
			Float64("alpha", en.opts.alpha).
			Msg("fit completed")
	}

	en.SetFitted()
	return nil
}

// Predict は入力データに対する予測を行う
func (en *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !en.IsFitted() {
		return nil, errors.NewNotFittedError("ElasticNet", "Predict")
	}

	_, c := X.Dims()
	if c != en.nFeatures {
		return nil, errors.NewDimensionError("ElasticNet.Predict", en.nFeatures, c, 1)
	}

	return predictLinear(X, en.coef, en.intercept), nil
}

// Score はモデルの決定係数（R²）を計算する
func (en *ElasticNet) Score(X, y mat.Matrix) (float64, error) {
	if !en.IsFitted() {
		return 0, errors.NewNotFittedError("ElasticNet", "Score")
	}

	yPred, err := en.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, yPred)
}

// Coef は学習された係数ベクトルを返す
func (en *ElasticNet) Coef() []float64 {
	if en.coef == nil {
		return nil
	}
	out := make([]float64, len(en.coef))
	copy(out, en.coef)
	return out
}

// Intercept は学習された切片を返す
func (en *ElasticNet) Intercept() float64 {
	return en.intercept
}

// NIter は座標降下法が実行したスイープ数を返す
func (en *ElasticNet) NIter() int {
	return en.nIter
}

// GetParams はモデルのハイパーパラメータを返す
func (en *ElasticNet) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         en.opts.alpha,
		"l1_ratio":      en.opts.l1Ratio,
		"tol":           en.opts.tol,
		"max_iter":      en.opts.maxIter,
		"fit_intercept": en.opts.fitIntercept,
		"positive":      en.opts.positive,
		"normalize":     en.opts.normalize,
	}
}

// SetParams はモデルのハイパーパラメータを設定する
func (en *ElasticNet) SetParams(params map[string]interface{}) error {
	return setCommonParams(&en.opts, params)
}

// fitPenalized は（重み付き）elastic net問題を前処理込みで解く
//
// normalizeが有効な場合はStandardScalerで各特徴量をスケールし、
// 得られた係数を元のスケールに戻して返す。fitInterceptが有効な場合は
// 中心化によって切片をペナルティの外に出す。
func fitPenalized(X mat.Matrix, yVec []float64, o *options, l1Weights []float64) (coef []float64, intercept float64, nIter int, err error) {
	Xwork := X

	var scaler *preprocessing.StandardScaler
	if o.normalize {
		// 平均の除去はcenterDataに任せ、ここでは分散のみ揃える
		scaler = preprocessing.NewStandardScaler(false, true)
		Xwork, err = scaler.FitTransform(X)
		if err != nil {
			return nil, 0, 0, err
		}
	}

	problem := &cdProblem{
		alpha:     o.alpha,
		l1Ratio:   o.l1Ratio,
		l1Weights: l1Weights,
		positive:  o.positive,
		maxIter:   o.maxIter,
		tol:       o.tol,
	}

	if o.fitIntercept {
		Xc, yc, xMeans, yMean := centerData(Xwork, yVec)
		coef, nIter, err = problem.solve(Xc, yc)
		if err != nil {
			return nil, 0, 0, err
		}
		intercept = interceptFrom(coef, xMeans, yMean)
	} else {
		nSamples, nFeatures := Xwork.Dims()
		Xc := mat.NewDense(nSamples, nFeatures, nil)
		Xc.Copy(Xwork)
		coef, nIter, err = problem.solve(Xc, yVec)
		if err != nil {
			return nil, 0, 0, err
		}
	}

	if scaler != nil {
		// スケール済み空間の係数を元の特徴量スケールへ戻す
		for j := range coef {
			coef[j] /= scaler.Scale[j]
		}
	}

	return coef, intercept, nIter, nil
}

// setCommonParams はGetParamsと対になるキーでoptionsを更新する
func setCommonParams(o *options, params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "alpha":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "must be a float64", value)
			}
			o.alpha = v
		case "l1_ratio":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "must be a float64", value)
			}
			o.l1Ratio = v
		case "gamma":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "must be a float64", value)
			}
			o.gamma = v
		case "eps":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "must be a float64", value)
			}
			o.eps = v
		case "tol":
			v, ok := value.(float64)
			if !ok {
				return errors.NewValidationError(key, "must be a float64", value)
			}
			o.tol = v
		case "max_iter":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			o.maxIter = v
		case "fit_intercept":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			o.fitIntercept = v
		case "positive":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			o.positive = v
		case "normalize":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			o.normalize = v
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}

	if math.IsNaN(o.alpha) {
		return errors.NewValidationError("alpha", "must not be NaN", o.alpha)
	}
	return nil
}
