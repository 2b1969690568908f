// Package automatic solves many deals without a human in the loop,
// collecting the results for later analysis.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/table"
)

// LogHeader is the first line of a batch log file.
const LogHeader = "seed,outcome,won,iterations,maxdepth,visited,plays,elapsedms\n"

// DealRunner solves one deal at a time with a fixed set of options.
type DealRunner struct {
	opts    solver.Options
	logchan chan string
}

// NewDealRunner just instantiates a runner. logchan may be nil.
func NewDealRunner(logchan chan string, cfg *config.Config) *DealRunner {
	return &DealRunner{opts: cfg.SolverOptions(), logchan: logchan}
}

// SolveSeed deals seed and searches it.
func (r *DealRunner) SolveSeed(ctx context.Context, seed uint64) solver.Result {
	res := solver.Solve(ctx, table.New(seed), r.opts)
	log.Debug().Uint64("seed", seed).Str("outcome", res.Outcome.String()).
		Int("iterations", res.Iterations).Msg("deal-solved")
	if r.logchan != nil {
		r.logchan <- logLine(seed, res)
	}
	return res
}

func logLine(seed uint64, res solver.Result) string {
	won := 0
	if res.Won() {
		won = 1
	}
	return fmt.Sprintf("%d,%s,%d,%d,%d,%d,%d,%d\n",
		seed,
		res.Outcome,
		won,
		res.Iterations,
		res.MaxDepth,
		res.Visited,
		len(res.Plays),
		res.Elapsed.Milliseconds())
}
