// Package elmgo provides extreme learning machines for Go, with optional
// metaheuristic tuning of the hidden weights.
//
// ElmGo offers a scikit-learn-like API: estimators are constructed with
// functional options, fitted with Fit, and queried with Predict and Score.
// Hidden weights are drawn at random and the output layer is solved in
// closed form with a Moore-Penrose pseudo-inverse, so a plain ELM fits in a
// single pass. The Mha variants replace the random draw with a population
// search (GA, PSO or DE) over the hidden weights.
//
// # Features
//
// - Closed-form training: one SVD solve instead of gradient descent
// - Metaheuristic tuning: GA, PSO and DE searches over the hidden weights
// - scikit-learn-like API: familiar Fit/Predict/Score surface
// - Robust error handling: typed errors with stack traces and warnings
// - Structured logging: slog-compatible interface with a zerolog backend
//
// # Installation
//
// Install ElmGo using go get:
//
//	go get github.com/elmgo-ml/elmgo
//
// # Quick Start
//
// Here's a simple regression example:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/elmgo-ml/elmgo/elm"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Create training data
//	    X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    // Create and train model
//	    model, err := elm.NewELMRegressor(elm.WithLayerSizes(20))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Make predictions
//	    XTest := mat.NewDense(2, 1, []float64{5, 6})
//	    predictions, err := model.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Predictions:", predictions)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - elm: the estimators (ELMRegressor, ELMClassifier and their Mha variants)
//   - mha: the metaheuristic optimizers (GA, PSO, DE)
//   - activation: hidden layer activation functions
//   - metrics: regression and classification metrics with short codes
//   - preprocessing: scalers and label encoders
//   - dataset: CSV loading and train/test splitting
//   - visual: convergence charts for tuned models
//
// The elmgo command under cmd/elmgo exposes training and prediction on CSV
// files without writing any Go code.
package elmgo
