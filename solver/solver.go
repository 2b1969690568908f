// Package solver searches a Klondike deal for a winning sequence of
// plays with an explicit-stack depth-first search.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/equity"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/movegen"
	"github.com/domino14/klondike/table"
	"github.com/domino14/klondike/zobrist"
)

type Outcome uint8

const (
	OutcomeRunning Outcome = iota
	OutcomeWon
	// OutcomeExhausted means the root frame was backtracked past.
	OutcomeExhausted
	OutcomeCapReached
	OutcomeCanceled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeWon:
		return "won"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeCapReached:
		return "cap-reached"
	case OutcomeCanceled:
		return "canceled"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

const (
	DefaultMaxIterations         = 500000
	DefaultVisitedMemoryFraction = 0.05
	DefaultLogEvery              = 100000
)

type Options struct {
	// MaxIterations caps the number of steps. Zero or less means no cap.
	MaxIterations int
	// PruneVisited skips children whose table was already seen.
	PruneVisited bool
	// PartialRuns lets a move lift any face-up tableau card. It turns
	// on PruneVisited, since runs can then shuttle between columns.
	PartialRuns           bool
	VisitedMemoryFraction float64
	// LogEvery emits a progress line every so many iterations.
	LogEvery int
}

func DefaultOptions() Options {
	return Options{
		MaxIterations:         DefaultMaxIterations,
		VisitedMemoryFraction: DefaultVisitedMemoryFraction,
		LogEvery:              DefaultLogEvery,
	}
}

type FrameState uint8

const (
	FrameUnexpanded FrameState = iota
	FrameExpanded
	FrameExhausted
)

func (s FrameState) String() string {
	switch s {
	case FrameUnexpanded:
		return "unexpanded"
	case FrameExpanded:
		return "expanded"
	case FrameExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Frame is one node of the search. It owns its table.
type Frame struct {
	// Parent is the index of the parent frame, -1 for the root.
	Parent     int
	Play       move.Play
	Table      *table.Table
	Candidates []equity.Candidate
	State      FrameState

	next int
}

// Remaining lists the candidates not yet tried.
func (f *Frame) Remaining() []equity.Candidate {
	return f.Candidates[f.next:]
}

type Result struct {
	Outcome Outcome
	// Plays is the path from the root, without the Setup label. On a
	// win it is the solution.
	Plays      []move.Play
	Iterations int
	MaxDepth   int
	Visited    int
	Pruned     int
	Final      *table.Table
	Elapsed    time.Duration
}

func (r Result) Won() bool {
	return r.Outcome == OutcomeWon
}

type Engine struct {
	opts      Options
	generator *movegen.KlondikeGenerator
	evaluator equity.Evaluator
	visited   *VisitedSet

	frames     []*Frame
	path       []move.Play
	iterations int
	maxDepth   int
	pruned     int
	outcome    Outcome
	last       *table.Table
}

// NewEngine prepares a search rooted at a copy of t.
func NewEngine(t *table.Table, opts Options) *Engine {
	if opts.PartialRuns {
		opts.PruneVisited = true
	}
	if opts.VisitedMemoryFraction <= 0 {
		opts.VisitedMemoryFraction = DefaultVisitedMemoryFraction
	}
	gen := movegen.NewKlondikeGenerator()
	gen.SetPartialRuns(opts.PartialRuns)

	z := &zobrist.Zobrist{}
	z.Initialize()

	root := t.Clone()
	e := &Engine{
		opts:      opts,
		generator: gen,
		evaluator: equity.KlondikeHeuristic{},
		visited:   NewVisitedSet(opts.VisitedMemoryFraction, z),
		frames:    []*Frame{{Parent: -1, Play: move.Setup, Table: root}},
		path:      []move.Play{move.Setup},
		last:      root,
	}
	e.visited.Insert(root)
	if root.Winner() {
		e.outcome = OutcomeWon
	}
	return e
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Outcome() Outcome {
	return e.outcome
}

func (e *Engine) Done() bool {
	return e.outcome != OutcomeRunning
}

func (e *Engine) Iterations() int {
	return e.iterations
}

// Frames exposes the live frame stack, root first. Callers must not
// modify it.
func (e *Engine) Frames() []*Frame {
	return e.frames
}

// Current is the deepest frame, or nil once the search is exhausted.
func (e *Engine) Current() *Frame {
	if len(e.frames) == 0 {
		return nil
	}
	return e.frames[len(e.frames)-1]
}

// Path is the plays from the root to the current frame, Setup first.
func (e *Engine) Path() []move.Play {
	return e.path
}

// Step runs one iteration: it either pushes a child of the current
// frame or backtracks out of it. It reports whether the search is over.
func (e *Engine) Step() bool {
	if e.Done() {
		return true
	}
	if len(e.frames) == 0 {
		e.outcome = OutcomeExhausted
		return true
	}
	if e.opts.MaxIterations > 0 && e.iterations >= e.opts.MaxIterations {
		e.outcome = OutcomeCapReached
		return true
	}
	e.iterations++

	depth := len(e.frames) - 1
	f := e.frames[depth]
	if f.State == FrameUnexpanded && f.Candidates == nil {
		f.Candidates = equity.Rank(e.generator.GenAll(f.Table), f.Table, e.evaluator)
	}
	for f.next < len(f.Candidates) {
		c := f.Candidates[f.next]
		f.next++
		if !Accept(c.Play, f.Table, e.path, e.opts.PartialRuns) {
			continue
		}
		child := move.Apply(c.Play, f.Table)
		if e.opts.PruneVisited && e.visited.Contains(child) {
			e.pruned++
			continue
		}
		e.visited.Insert(child)
		f.State = FrameExpanded
		e.frames = append(e.frames, &Frame{Parent: depth, Play: c.Play, Table: child})
		e.path = append(e.path, c.Play)
		e.last = child
		if depth+1 > e.maxDepth {
			e.maxDepth = depth + 1
		}
		if child.Winner() {
			e.outcome = OutcomeWon
		}
		return e.Done()
	}

	f.State = FrameExhausted
	e.frames = e.frames[:depth]
	e.path = e.path[:depth]
	if depth == 0 {
		e.outcome = OutcomeExhausted
	} else {
		e.last = e.frames[depth-1].Table
	}
	return e.Done()
}

// Solve steps until the search ends or ctx is done. Cancellation is
// reported as OutcomeCanceled.
func (e *Engine) Solve(ctx context.Context) Result {
	tstart := time.Now()
	log.Debug().Int("max-iterations", e.opts.MaxIterations).
		Bool("prune-visited", e.opts.PruneVisited).
		Bool("partial-runs", e.opts.PartialRuns).
		Msg("klondike-solve-config")

	for !e.Done() {
		if ctx.Err() != nil {
			e.outcome = OutcomeCanceled
			break
		}
		e.Step()
		if e.opts.LogEvery > 0 && e.iterations%e.opts.LogEvery == 0 {
			log.Debug().Int("iterations", e.iterations).
				Int("depth", len(e.frames)).
				Int("visited", e.visited.Len()).
				Int("foundations", e.last.CardsInFoundation()).
				Msg("solve-progress")
		}
	}
	res := e.Result()
	res.Elapsed = time.Since(tstart)
	log.Info().
		Str("outcome", res.Outcome.String()).
		Int("iterations", res.Iterations).
		Int("max-depth", res.MaxDepth).
		Int("plays", len(res.Plays)).
		Int("visited", res.Visited).
		Int("visited-refused", e.visited.Refused()).
		Int("pruned", res.Pruned).
		Float64("time-elapsed-sec", res.Elapsed.Seconds()).
		Msg("solve-returning")
	return res
}

// Result snapshots the search as it stands.
func (e *Engine) Result() Result {
	plays := make([]move.Play, 0, len(e.path))
	if len(e.path) > 1 {
		plays = append(plays, e.path[1:]...)
	}
	return Result{
		Outcome:    e.outcome,
		Plays:      plays,
		Iterations: e.iterations,
		MaxDepth:   e.maxDepth,
		Visited:    e.visited.Len(),
		Pruned:     e.pruned,
		Final:      e.last,
	}
}

// Solve searches t with opts.
func Solve(ctx context.Context, t *table.Table, opts Options) Result {
	return NewEngine(t, opts).Solve(ctx)
}
