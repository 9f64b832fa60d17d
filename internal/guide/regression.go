package guide

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Ridge is added to the diagonal of the Gram matrix so that short or
// degenerate windows still have a unique solution.
const Ridge = 1e-3

// Line is an affine model y = Intercept + Slope*x.
type Line struct {
	Intercept float64
	Slope     float64
}

func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// FitLine solves the ridge-regularised normal equations
//
//	(XᵀX + ridge·I) w = Xᵀy
//
// with X = [1 x]. The Gram matrix is positive definite for any ridge > 0, so
// finite input always yields a finite line.
func FitLine(x, y []float64, ridge float64) (Line, error) {
	if len(x) != len(y) {
		return Line{}, fmt.Errorf("guide: fit needs matching lengths, got %d and %d", len(x), len(y))
	}
	if len(x) == 0 {
		return Line{}, nil
	}

	features := mat.NewDense(len(x), 2, nil)
	for i, xi := range x {
		features.Set(i, 0, 1)
		features.Set(i, 1, xi)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, features.T())
	for i := 0; i < 2; i++ {
		gram.SetSym(i, i, gram.At(i, i)+ridge)
	}

	var rhs mat.VecDense
	rhs.MulVec(features.T(), mat.NewVecDense(len(y), y))

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return Line{}, ErrNonFiniteFit
	}

	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &rhs); err != nil {
		// A Condition error still carries a solution.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return Line{}, err
		}
	}

	line := Line{Intercept: w.AtVec(0), Slope: w.AtVec(1)}
	if !isFinite(line.Intercept) || !isFinite(line.Slope) {
		return Line{}, ErrNonFiniteFit
	}
	return line, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
