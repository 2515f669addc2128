package linear

// options holds the hyperparameters shared by the estimators in this package.
// Each constructor starts from its own defaults and applies the given Options.
type options struct {
	alpha        float64
	l1Ratio      float64
	gamma        float64
	eps          float64
	tol          float64
	maxIter      int
	fitIntercept bool
	positive     bool
	normalize    bool
	weightSource string

	// cross-validation knobs
	nAlphas int
	alphas  []float64
	nSplits int
	shuffle bool
	seed    uint64

	verbose bool
}

// Option is a function that configures an estimator
type Option func(*options)

// WithAlpha sets the constant that multiplies the penalty terms
func WithAlpha(alpha float64) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}

// WithL1Ratio sets the mixing parameter between L1 and L2 penalties.
// 1.0 is pure lasso, 0.0 is pure ridge.
func WithL1Ratio(ratio float64) Option {
	return func(o *options) {
		o.l1Ratio = ratio
	}
}

// WithGamma sets the exponent of the adaptive weights w_j = |b_j|^(-gamma)
func WithGamma(gamma float64) Option {
	return func(o *options) {
		o.gamma = gamma
	}
}

// WithEps sets the floor applied to pilot coefficients before inversion,
// preventing infinite adaptive weights for coefficients shrunk to zero
func WithEps(eps float64) Option {
	return func(o *options) {
		o.eps = eps
	}
}

// WithTol sets the convergence tolerance of the coordinate descent solver
func WithTol(tol float64) Option {
	return func(o *options) {
		o.tol = tol
	}
}

// WithMaxIter sets the maximum number of coordinate descent sweeps
func WithMaxIter(n int) Option {
	return func(o *options) {
		o.maxIter = n
	}
}

// WithFitIntercept sets whether to fit an unpenalized intercept term
func WithFitIntercept(fit bool) Option {
	return func(o *options) {
		o.fitIntercept = fit
	}
}

// WithPositive constrains the coefficients to be non-negative
func WithPositive(positive bool) Option {
	return func(o *options) {
		o.positive = positive
	}
}

// WithNormalize standardizes features before fitting; coefficients are
// reported on the original scale
func WithNormalize(normalize bool) Option {
	return func(o *options) {
		o.normalize = normalize
	}
}

// WithWeightSource selects the pilot estimator for the adaptive weights:
// "enet" (default, plain elastic net) or "ols" (ordinary least squares)
func WithWeightSource(source string) Option {
	return func(o *options) {
		o.weightSource = source
	}
}

// WithNAlphas sets the number of candidate alphas on the automatic grid
func WithNAlphas(n int) Option {
	return func(o *options) {
		o.nAlphas = n
	}
}

// WithAlphas supplies an explicit list of candidate alphas, overriding the
// automatic grid
func WithAlphas(alphas []float64) Option {
	return func(o *options) {
		o.alphas = alphas
	}
}

// WithCV sets the number of cross-validation folds
func WithCV(nSplits int) Option {
	return func(o *options) {
		o.nSplits = nSplits
	}
}

// WithShuffle enables shuffling of samples before fold assignment
func WithShuffle(shuffle bool) Option {
	return func(o *options) {
		o.shuffle = shuffle
	}
}

// WithSeed sets the random seed used when shuffling
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithVerbose enables structured progress logging during Fit
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}
