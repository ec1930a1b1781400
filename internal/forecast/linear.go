package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// linearRegressor fits a least squares model with an intercept over the
// window values. It is deterministic and cheap, which makes it the fallback
// when recurrent training is disabled.
type linearRegressor struct {
	lookback int
	coef     *mat.VecDense
}

// ridge keeps the normal equations solvable when window columns are
// collinear, which short daily series regularly are.
const ridge = 1e-8

func newLinearRegressor(lookback int) *linearRegressor {
	return &linearRegressor{lookback: lookback}
}

func (l *linearRegressor) Fit(windows [][]float64, targets []float64) error {
	if len(windows) == 0 || len(windows) != len(targets) {
		return fmt.Errorf("%w: %d windows, %d targets", ErrInsufficientData, len(windows), len(targets))
	}

	rows := len(windows)
	cols := l.lookback + 1
	design := mat.NewDense(rows, cols, nil)
	for i, w := range windows {
		design.Set(i, 0, 1)
		for j, v := range w {
			design.Set(i, j+1, v)
		}
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for i := 0; i < cols; i++ {
		gram.Set(i, i, gram.At(i, i)+ridge)
	}

	var rhs mat.VecDense
	rhs.MulVec(design.T(), mat.NewVecDense(rows, targets))

	coef := mat.NewVecDense(cols, nil)
	if err := coef.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("least squares solve: %w", err)
	}
	l.coef = coef
	return nil
}

func (l *linearRegressor) Predict(window []float64) (float64, error) {
	if l.coef == nil {
		return 0, ErrUntrainedModel
	}
	if len(window) != l.lookback {
		return 0, fmt.Errorf("window length %d, expected %d", len(window), l.lookback)
	}
	out := l.coef.AtVec(0)
	for i, v := range window {
		out += l.coef.AtVec(i+1) * v
	}
	return out, nil
}
