package runner

import (
	"context"
	"sync"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/ctxlog"
	"github.com/chainrun/chainrun/internal/graph"
	"github.com/chainrun/chainrun/internal/model"
)

// RoundResult reports what a RunReady invocation did.
type RoundResult struct {
	// Completed holds the IDs of steps that committed a result, in
	// completion order across rounds.
	Completed []string
	// Manual holds the IDs of manual steps that were ready but need a
	// human-supplied value.
	Manual []string
	// Failed maps step IDs to the error that stopped them.
	Failed map[string]error
}

// RunReady repeatedly executes every ready automatic step until no
// progress remains. Steps within a round run concurrently: they have no
// dependency relationship between them, so no coordination beyond the
// runner's commit lock is needed. Completing a round can unlock further
// steps, so readiness is recomputed from scratch after each round.
//
// Manual steps are reported, never executed. A step that fails is not
// retried within this invocation but stays incomplete for later runs.
func (r *Runner) RunReady(ctx context.Context, at chain.BlockRef) *RoundResult {
	logger := ctxlog.FromContext(ctx)
	res := &RoundResult{Failed: make(map[string]error)}
	attempted := make(map[string]bool)
	manualSeen := make(map[string]bool)

	for {
		r.mu.Lock()
		ready := graph.NextSteps(r.list)
		r.mu.Unlock()

		var batch []model.Step
		for _, s := range ready {
			id := s.Head().ID
			if s.Kind() == model.KindManual {
				if !manualSeen[id] {
					manualSeen[id] = true
					res.Manual = append(res.Manual, id)
				}
				continue
			}
			if !attempted[id] {
				batch = append(batch, s)
			}
		}
		if len(batch) == 0 {
			return res
		}
		logger.Debug("executing ready steps", "count", len(batch))

		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for _, s := range batch {
			attempted[s.Head().ID] = true
			wg.Add(1)
			go func(s model.Step) {
				defer wg.Done()
				id := s.Head().ID

				var err error
				switch s.Kind() {
				case model.KindView:
					err = r.CompleteView(ctx, id, at)
				case model.KindRaw:
					err = r.CompleteRaw(ctx, id)
				case model.KindMethod:
					err = r.CompleteMethod(ctx, id)
				}

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					res.Failed[id] = err
					return
				}
				res.Completed = append(res.Completed, id)
			}(s)
		}
		wg.Wait()
	}
}
