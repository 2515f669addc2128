package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLinearRegressionFit(t *testing.T) {
	// y = 2x + 3
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{5, 7, 9, 11, 13})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if !lr.IsFitted() {
		t.Error("model should be fitted")
	}

	weights := lr.GetWeights()
	if len(weights) != 1 {
		t.Fatalf("expected 1 weight, got %d", len(weights))
	}
	if math.Abs(weights[0]-2.0) > 1e-8 {
		t.Errorf("weight = %v, want 2.0", weights[0])
	}
	if math.Abs(lr.GetIntercept()-3.0) > 1e-8 {
		t.Errorf("intercept = %v, want 3.0", lr.GetIntercept())
	}
}

func TestLinearRegressionPredict(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	XTest := mat.NewDense(2, 1, []float64{5, 6})
	pred, err := lr.Predict(XTest)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	want := []float64{10, 12}
	for i, w := range want {
		if math.Abs(pred.At(i, 0)-w) > 1e-8 {
			t.Errorf("pred[%d] = %v, want %v", i, pred.At(i, 0), w)
		}
	}
}

func TestLinearRegressionScore(t *testing.T) {
	X, y := makeLinearData(t, 100, []float64{3.0, -1.0}, 0.5)

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	// ノイズなしの線形データなのでほぼ完全にフィットする
	if score < 0.999 {
		t.Errorf("score = %v, want >= 0.999", score)
	}
}

func TestLinearRegressionErrors(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
	}{
		{
			name: "sample count mismatch",
			X:    mat.NewDense(5, 2, nil),
			y:    mat.NewDense(4, 1, nil),
		},
		{
			name: "y not a column vector",
			X:    mat.NewDense(5, 2, nil),
			y:    mat.NewDense(5, 2, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLinearRegression()
			if err := lr.Fit(tt.X, tt.y); err == nil {
				t.Error("Fit() should return an error")
			}
		})
	}
}

func TestLinearRegressionPredictBeforeFit(t *testing.T) {
	lr := NewLinearRegression()
	if _, err := lr.Predict(mat.NewDense(3, 2, nil)); err == nil {
		t.Error("Predict() before Fit() should return an error")
	}
}
