package linear

import (
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aenet/core/model"
	"github.com/YuminosukeSato/aenet/metrics"
	"github.com/YuminosukeSato/aenet/pkg/errors"
	"github.com/YuminosukeSato/aenet/pkg/log"
)

// 自動生成するalphaグリッドの下限は alphaMax * gridEps
const gridEps = 1e-3

// AdaptiveElasticNetCV は交差検証によりペナルティ強度alphaを選択する
// AdaptiveElasticNetのラッパー
//
// alphaの候補グリッド上で各フォールドの検証MSEを計算し、平均MSEを最小にする
// alphaを選んだ後、全訓練データで再学習する。フォールドの評価は互いに独立な
// ためゴルーチンで並列実行される。
type AdaptiveElasticNetCV struct {
	model.BaseEstimator

	opts options

	// Alpha は交差検証で選択されたペナルティ強度（Fit後に有効）
	Alpha float64

	// Alphas は探索されたalphaグリッド（降順）
	Alphas []float64

	// MSEPath は各alpha×フォールドの検証MSE（len(Alphas) × nSplits）
	MSEPath *mat.Dense

	best *AdaptiveElasticNet
}

// NewAdaptiveElasticNetCV は新しいAdaptiveElasticNetCVを作成する
//
// デフォルト: 5フォールド、100点の自動alphaグリッド。その他のパラメータは
// AdaptiveElasticNetと同じデフォルトを持つ。
//
// 使用例:
//
//	model := linear.NewAdaptiveElasticNetCV(
//	    linear.WithCV(5),
//	    linear.WithNAlphas(50),
//	)
//	err := model.Fit(X, y)
//	fmt.Println(model.Alpha) // 選択されたalpha
func NewAdaptiveElasticNetCV(opts ...Option) *AdaptiveElasticNetCV {
	o := defaultAdaptiveOptions()
	o.nAlphas = 100
	o.nSplits = 5

	cv := &AdaptiveElasticNetCV{opts: o}
	for _, opt := range opts {
		opt(&cv.opts)
	}
	return cv
}

// Fit は交差検証でalphaを選択し、選択したalphaで全データを再学習する
func (cv *AdaptiveElasticNetCV) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "AdaptiveElasticNetCV.Fit")

	if err := cv.validateParams(); err != nil {
		return err
	}

	nSamples, _, yVec, err := validateFitInputs("AdaptiveElasticNetCV.Fit", X, y)
	if err != nil {
		return err
	}
	if cv.opts.nSplits > nSamples {
		return errors.NewValidationError("cv", "must not exceed the number of samples", cv.opts.nSplits)
	}

	alphas := cv.opts.alphas
	if alphas == nil {
		alphas = alphaGrid(X, yVec, cv.opts.l1Ratio, cv.opts.nAlphas, cv.opts.fitIntercept)
	} else {
		// ユーザ指定グリッドも降順に揃える（同率のとき強い正則化を優先）
		alphas = append([]float64(nil), alphas...)
		sort.Sort(sort.Reverse(sort.Float64Slice(alphas)))
	}
	cv.Alphas = alphas

	logger := log.GetLoggerWithName("linear")
	if cv.opts.verbose {
		logger.Info().
			Str("model", "AdaptiveElasticNetCV").
			Int("n_samples", nSamples).
			Int("n_alphas", len(alphas)).
			Int("n_splits", cv.opts.nSplits).
			Msg("cross-validation started")
	}

	splitter := NewKFold(cv.opts.nSplits, cv.opts.shuffle, cv.opts.seed)
	folds := splitter.Split(nSamples)

	msePath := mat.NewDense(len(alphas), len(folds), nil)
	foldErrs := make([]error, len(folds))

	// フォールドごとの評価は独立なので並列化する
	var wg sync.WaitGroup
	for foldIdx := range folds {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			fold := folds[idx]
			trainX, trainY := subsetRows(X, y, fold.TrainIndices)
			testX, testY := subsetRows(X, y, fold.TestIndices)

			for a, alpha := range alphas {
				candidate := cv.newCandidate(alpha)
				if err := candidate.Fit(trainX, trainY); err != nil {
					foldErrs[idx] = errors.Wrapf(err, "fold %d: fit failed for alpha=%g", idx, alpha)
					return
				}

				pred, err := candidate.Predict(testX)
				if err != nil {
					foldErrs[idx] = errors.Wrapf(err, "fold %d: predict failed for alpha=%g", idx, alpha)
					return
				}

				mse, err := metrics.MSEMatrix(testY, pred)
				if err != nil {
					foldErrs[idx] = errors.Wrapf(err, "fold %d: scoring failed for alpha=%g", idx, alpha)
					return
				}
				msePath.Set(a, idx, mse)
			}

			if cv.opts.verbose {
				logger.Info().
					Str("model", "AdaptiveElasticNetCV").
					Int("fold", idx).
					Msg("fold completed")
			}
		}(foldIdx)
	}
	wg.Wait()

	for _, ferr := range foldErrs {
		if ferr != nil {
			return ferr
		}
	}
	cv.MSEPath = msePath

	// 平均検証MSEを最小にするalphaを選ぶ
	// グリッドは降順なので、同率の場合はより強い正則化が選ばれる
	bestIdx := 0
	bestMSE := math.Inf(1)
	for a := range alphas {
		sum := 0.0
		for f := 0; f < len(folds); f++ {
			sum += msePath.At(a, f)
		}
		mean := sum / float64(len(folds))
		if mean < bestMSE {
			bestMSE = mean
			bestIdx = a
		}
	}
	cv.Alpha = alphas[bestIdx]

	// 選択したalphaで全データを再学習する
	// 同じalphaを手動でAdaptiveElasticNetに渡した場合と同一の係数になる
	cv.best = cv.newCandidate(cv.Alpha)
	if err := cv.best.Fit(X, y); err != nil {
		return errors.Wrap(err, "refit with selected alpha failed")
	}

	if cv.opts.verbose {
		logger.Info().
			Str("model", "AdaptiveElasticNetCV").
			Float64("alpha", cv.Alpha).
			Float64("mean_mse", bestMSE).
			Msg("cross-validation completed")
	}

	cv.SetFitted()
	return nil
}

// newCandidate は共有ハイパーパラメータと指定のalphaを持つ推定器を作る
func (cv *AdaptiveElasticNetCV) newCandidate(alpha float64) *AdaptiveElasticNet {
	ae := &AdaptiveElasticNet{opts: cv.opts}
	ae.opts.alpha = alpha
	ae.opts.verbose = false
	return ae
}

// Predict は再学習済みモデルで入力データに対する予測を行う
func (cv *AdaptiveElasticNetCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !cv.IsFitted() {
		return nil, errors.NewNotFittedError("AdaptiveElasticNetCV", "Predict")
	}
	return cv.best.Predict(X)
}

// Score はモデルの決定係数（R²）を計算する
func (cv *AdaptiveElasticNetCV) Score(X, y mat.Matrix) (float64, error) {
	if !cv.IsFitted() {
		return 0, errors.NewNotFittedError("AdaptiveElasticNetCV", "Score")
	}
	return cv.best.Score(X, y)
}

// Coef は再学習済みモデルの係数ベクトルを返す
func (cv *AdaptiveElasticNetCV) Coef() []float64 {
	if cv.best == nil {
		return nil
	}
	return cv.best.Coef()
}

// Intercept は再学習済みモデルの切片を返す
func (cv *AdaptiveElasticNetCV) Intercept() float64 {
	if cv.best == nil {
		return 0
	}
	return cv.best.Intercept()
}

// GetParams はモデルのハイパーパラメータを返す
func (cv *AdaptiveElasticNetCV) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"l1_ratio":      cv.opts.l1Ratio,
		"gamma":         cv.opts.gamma,
		"eps":           cv.opts.eps,
		"tol":           cv.opts.tol,
		"max_iter":      cv.opts.maxIter,
		"fit_intercept": cv.opts.fitIntercept,
		"positive":      cv.opts.positive,
		"normalize":     cv.opts.normalize,
		"weight_source": cv.opts.weightSource,
		"n_alphas":      cv.opts.nAlphas,
		"cv":            cv.opts.nSplits,
	}
}

func (cv *AdaptiveElasticNetCV) validateParams() error {
	if err := validatePenalty(1.0, cv.opts.l1Ratio, cv.opts.tol, cv.opts.maxIter); err != nil {
		return err
	}
	if cv.opts.gamma <= 0 {
		return errors.NewValidationError("gamma", "must be positive", cv.opts.gamma)
	}
	if cv.opts.eps <= 0 {
		return errors.NewValidationError("eps", "must be positive", cv.opts.eps)
	}
	if cv.opts.nSplits < 2 {
		return errors.NewValidationError("cv", "must be at least 2", cv.opts.nSplits)
	}
	if cv.opts.alphas == nil && cv.opts.nAlphas < 1 {
		return errors.NewValidationError("n_alphas", "must be at least 1", cv.opts.nAlphas)
	}
	for _, a := range cv.opts.alphas {
		if a < 0 {
			return errors.NewValidationError("alphas", "must be non-negative", a)
		}
	}
	return nil
}

// alphaGrid はデータ依存のalpha候補グリッドを生成する
//
// alphaMax = max_j |x_j・y| / (n・l1Ratio) はすべての係数が0になる最小の
// alphaであり、そこから alphaMax*gridEps まで対数スケールでnAlphas点を
// 降順に並べる。
func alphaGrid(X mat.Matrix, yVec []float64, l1Ratio float64, nAlphas int, fitIntercept bool) []float64 {
	nSamples, nFeatures := X.Dims()

	var Xc *mat.Dense
	var yc []float64
	if fitIntercept {
		Xc, yc, _, _ = centerData(X, yVec)
	} else {
		Xc = mat.NewDense(nSamples, nFeatures, nil)
		Xc.Copy(X)
		yc = yVec
	}

	// l1Ratioが0に近いとalphaMaxが発散するため下限を設ける（sklearnと同じ扱い）
	ratio := l1Ratio
	if ratio < 1e-3 {
		ratio = 1e-3
	}

	maxCov := 0.0
	col := make([]float64, nSamples)
	for j := 0; j < nFeatures; j++ {
		mat.Col(col, j, Xc)
		dot := 0.0
		for i, v := range col {
			dot += v * yc[i]
		}
		if math.Abs(dot) > maxCov {
			maxCov = math.Abs(dot)
		}
	}

	alphaMax := maxCov / (float64(nSamples) * ratio)
	if alphaMax <= 0 {
		alphaMax = 1.0
	}

	if nAlphas == 1 {
		return []float64{alphaMax}
	}

	alphas := make([]float64, nAlphas)
	logMax := math.Log10(alphaMax)
	logMin := math.Log10(alphaMax * gridEps)
	step := (logMax - logMin) / float64(nAlphas-1)
	for i := 0; i < nAlphas; i++ {
		alphas[i] = math.Pow(10, logMax-float64(i)*step)
	}
	return alphas
}

// AdaptiveElasticNetPath は各alphaに対する係数パスを計算する
//
// 戻り値のcoefsは nFeatures × len(alphas) の行列で、列iがalphas[i]での
// 係数ベクトルに対応する。alphasがnilの場合は自動グリッドを使う。
func AdaptiveElasticNetPath(X, y mat.Matrix, alphas []float64, opts ...Option) ([]float64, *mat.Dense, error) {
	o := defaultAdaptiveOptions()
	o.nAlphas = 100
	for _, opt := range opts {
		opt(&o)
	}

	_, nFeatures, yVec, err := validateFitInputs("AdaptiveElasticNetPath", X, y)
	if err != nil {
		return nil, nil, err
	}

	if alphas == nil {
		alphas = alphaGrid(X, yVec, o.l1Ratio, o.nAlphas, o.fitIntercept)
	}

	coefs := mat.NewDense(nFeatures, len(alphas), nil)
	for i, alpha := range alphas {
		ae := &AdaptiveElasticNet{opts: o}
		ae.opts.alpha = alpha
		if err := ae.Fit(X, y); err != nil {
			return nil, nil, errors.Wrapf(err, "path fit failed for alpha=%g", alpha)
		}
		for j, c := range ae.coef {
			coefs.Set(j, i, c)
		}
	}

	return alphas, coefs, nil
}
