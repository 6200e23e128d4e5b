// internal/app/lifecycle/saga.go
package lifecycle

import (
	"context"

	"go.uber.org/zap"
)

// step is one link of a multi-step mutation chain. Forward actions run in
// order; when a later step fails, compensations of completed steps run in
// reverse so the ledger is not left half-applied.
type step struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error // nil when the step has no undo
}

// runSteps executes steps in order. Step N only starts after step N-1 settled
// successfully. On failure it unwinds completed steps and returns the original
// error; compensation errors are logged, never propagated.
func (o *Orchestrator) runSteps(ctx context.Context, op string, steps []step) error {
	var done []step
	for _, st := range steps {
		if err := st.run(ctx); err != nil {
			o.log.Warn("lifecycle step failed",
				zap.String("op", op),
				zap.String("step", st.name),
				zap.Error(err))
			o.unwind(ctx, op, done)
			return err
		}
		done = append(done, st)
	}
	return nil
}

func (o *Orchestrator) unwind(ctx context.Context, op string, done []step) {
	for i := len(done) - 1; i >= 0; i-- {
		st := done[i]
		if st.compensate == nil {
			continue
		}
		if err := st.compensate(ctx); err != nil {
			// The store now holds residue needing manual correction.
			o.log.Error("lifecycle compensation failed",
				zap.String("op", op),
				zap.String("step", st.name),
				zap.Error(err))
		}
	}
}
