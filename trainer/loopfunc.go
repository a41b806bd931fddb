package trainer

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/neurlang/nli/logger"
)

// ErrDiverged is returned when an epoch loss is not a finite number.
var ErrDiverged = errors.New("trainer: loss diverged")

// LoopOptions configures Loop.
type LoopOptions struct {
	Name    string
	MaxIter int

	// Tol stops the loop once an epoch improves the loss by less than
	// Tol·max(1, |previous loss|). Zero runs all MaxIter epochs.
	Tol float64

	// Epoch trains one pass and returns its loss.
	Epoch func(ctx context.Context, epoch int) (float64, error)

	// Evaluate optionally scores the model after each epoch for the log.
	Evaluate func() float64
}

// LoopResult summarizes a finished loop.
type LoopResult struct {
	Epochs    int
	Loss      float64
	Converged bool
}

// Loop runs epochs until MaxIter, convergence, cancellation or divergence.
func Loop(ctx context.Context, o LoopOptions) (LoopResult, error) {
	var res LoopResult
	prev := math.Inf(1)
	start := time.Now()
	for epoch := 0; epoch < o.MaxIter; epoch++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		loss, err := o.Epoch(ctx, epoch)
		if err != nil {
			return res, err
		}
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return res, errors.Wrapf(ErrDiverged, "%s epoch %d", o.Name, epoch+1)
		}
		res.Epochs, res.Loss = epoch+1, loss

		fields := []interface{}{logger.FieldModel, o.Name, logger.FieldEpoch, epoch + 1, logger.FieldLoss, loss}
		if o.Evaluate != nil {
			fields = append(fields, logger.FieldScore, o.Evaluate())
		}
		logger.Logger.Debugw("epoch done", fields...)

		if o.Tol > 0 && !math.IsInf(prev, 1) && prev-loss < o.Tol*math.Max(1, math.Abs(prev)) {
			res.Converged = true
			break
		}
		prev = loss
	}
	logger.Logger.Infow("training finished",
		logger.FieldModel, o.Name,
		logger.FieldEpoch, res.Epochs,
		logger.FieldLoss, res.Loss,
		"converged", res.Converged,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return res, nil
}
