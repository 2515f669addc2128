// Package linear provides linear regression models with elastic-net style
// regularization.
//
// The centerpiece is AdaptiveElasticNet, an elastic net whose L1 penalty is
// re-weighted per coefficient using a preliminary (pilot) fit, following
// Zou and Zhang (2009). AdaptiveElasticNetCV selects the penalty strength
// by k-fold cross-validation. ElasticNet and LinearRegression serve as the
// pilot estimators and as baselines.
//
// All models implement Fit/Predict/Score on gonum matrices:
//
//	model := linear.NewAdaptiveElasticNetCV(linear.WithCV(5))
//	if err := model.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	yPred, err := model.Predict(XTest)
//	score, err := model.Score(XTest, yTest)
package linear
