// Package aenet provides the Adaptive Elastic Net linear regression model
// for Go, with a scikit-learn-like estimator API built on gonum.
//
// The adaptive elastic net (Zou and Zhang, 2009) combines an L1 penalty with
// per-coefficient adaptive weights and an L2 penalty, improving variable
// selection consistency over the plain elastic net. This library implements
// the model with a native cyclic coordinate descent solver; no external
// optimization backend is required.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/aenet/datasets"
//	    "github.com/YuminosukeSato/aenet/linear"
//	)
//
//	func main() {
//	    X, y, _, err := datasets.MakeRegression(200, 20, 5, 1.0, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model := linear.NewAdaptiveElasticNet(linear.WithAlpha(0.1))
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    score, err := model.Score(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("R² = %.4f\n", score)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - linear: ElasticNet, AdaptiveElasticNet, AdaptiveElasticNetCV,
//     LinearRegression and the KFold splitter
//   - datasets: synthetic regression data generation and train/test splitting
//   - metrics: regression metrics (MSE, RMSE, MAE, R², explained variance)
//   - preprocessing: StandardScaler
//   - core/model, core/parallel, pkg/errors, pkg/log: shared infrastructure
package aenet
