package automatic

// Batch solving: many seeds, a bounded pool of workers.

import (
	"context"
	"errors"
	"expvar"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/solver"
)

var (
	SolvedCounter *expvar.Int
	IsSolving     *expvar.Int
)

// batchRunning admits one batch at a time; IsSolving mirrors it for
// expvar readers.
var batchRunning atomic.Bool

var ErrBatchRunning = errors.New("a batch is already running, please wait till complete")

func init() {
	SolvedCounter = expvar.NewInt("solvedCounter")
	IsSolving = expvar.NewInt("isSolving")
}

// Sink receives every finished result.
type Sink interface {
	Record(ctx context.Context, seed uint64, res solver.Result) error
}

// seedChecker is implemented by sinks that can tell whether a seed was
// already solved, so a batch can resume.
type seedChecker interface {
	Has(ctx context.Context, seed uint64) (bool, error)
}

type BatchSummary struct {
	Queued  int
	Skipped int
	Solved  int
	Won     int
}

// RunBatch solves seeds with cfg.Threads workers (one per CPU if zero).
// Results go to sink and, one CSV line per deal, to logfile; either may
// be nil. Seeds the sink already holds are skipped. It returns when every
// deal is done or ctx is canceled.
func RunBatch(ctx context.Context, cfg *config.Config, seeds []uint64,
	sink Sink, logfile io.Writer) (*BatchSummary, error) {

	if !batchRunning.CompareAndSwap(false, true) {
		return nil, ErrBatchRunning
	}
	defer batchRunning.Store(false)
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log.Debug().Msgf("Starting %v deals, %v threads", len(seeds), threads)
	SolvedCounter.Set(0)
	IsSolving.Add(1)
	defer IsSolving.Add(-1)

	logChan := make(chan string, 100)
	loggerDone := make(chan struct{})
	go func() {
		defer close(loggerDone)
		if logfile != nil {
			io.WriteString(logfile, LogHeader)
		}
		for msg := range logChan {
			if logfile != nil {
				io.WriteString(logfile, msg)
			}
		}
	}()

	summary := &BatchSummary{}
	results := make(chan solver.Result, threads)
	summaryDone := make(chan struct{})
	go func() {
		defer close(summaryDone)
		for res := range results {
			summary.Solved++
			if res.Won() {
				summary.Won++
			}
		}
	}()

	checker, _ := sink.(seedChecker)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	runner := NewDealRunner(logChan, cfg)

queue:
	for i, seed := range seeds {
		if gctx.Err() != nil {
			log.Info().Msg("Got stop signal, exiting soon...")
			break queue
		}
		if checker != nil {
			done, err := checker.Has(gctx, seed)
			if err != nil {
				log.Err(err).Uint64("seed", seed).Msg("result-lookup-failed")
			} else if done {
				summary.Skipped++
				continue
			}
		}
		summary.Queued++
		g.Go(func() error {
			res := runner.SolveSeed(gctx, seed)
			if res.Outcome == solver.OutcomeCanceled {
				return nil
			}
			SolvedCounter.Add(1)
			results <- res
			if sink != nil {
				return sink.Record(gctx, seed, res)
			}
			return nil
		})
		if (i+1)%1000 == 0 {
			log.Info().Int("queued", i+1).Msg("queued-deals")
		}
	}
	err := g.Wait()
	close(logChan)
	close(results)
	<-loggerDone
	<-summaryDone
	log.Info().Int("solved", summary.Solved).Int("won", summary.Won).
		Int("skipped", summary.Skipped).Msg("batch-finished")
	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}
