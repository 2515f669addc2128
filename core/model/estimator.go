package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// LinearModel は線形モデルのインターフェース
// 学習済みの係数ベクトルと切片へのアクセスを提供する
type LinearModel interface {
	// Coef は学習された係数ベクトルを返す（長さは特徴量数に等しい）
	Coef() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
}
