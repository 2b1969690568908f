package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/klondike/automatic"
	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/equity"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/movegen"
	"github.com/domino14/klondike/playlog"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/table"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage()
	}
	return usageTopic(cmd.args[0])
}

// setTable replaces the live table and forgets everything derived from
// the previous one.
func (sc *ShellController) setTable(seed uint64, history []*table.Table, plays []move.Play) {
	sc.seed = seed
	sc.dealt = true
	sc.history = history[:len(history)-1]
	sc.live = history[len(history)-1]
	sc.plays = plays
	sc.curGenPlays = nil
	sc.engine = nil
	sc.liftedFrom = nil
	sc.cursor = table.NewCursor()
	sc.cursor.PartialRuns = sc.config.PartialRuns
}

func (sc *ShellController) display() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Seed %d, %d plays made\n", sc.seed, len(sc.plays))
	sb.WriteString(sc.live.ToDisplayText(sc.cursor))
	if sc.live.Winner() {
		sb.WriteString("You won!\n")
	}
	return sb.String()
}

func (sc *ShellController) newDeal(cmd *shellcmd) (*Response, error) {
	if sc.solving() {
		return nil, errSolving
	}
	var seed uint64
	switch {
	case cmd.args == nil:
		seed = frand.Uint64n(1<<63 - 1)
	case cmd.args[0] == "winnable":
		s, err := sc.resultStore(context.Background())
		if err != nil {
			return nil, err
		}
		seeds, err := s.Winnable(context.Background())
		if err != nil {
			return nil, err
		}
		seed = automatic.PickWinnable(seeds)
	default:
		var err error
		seed, err = strconv.ParseUint(cmd.args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed %q: %w", cmd.args[0], err)
		}
	}
	sc.setTable(seed, []*table.Table{table.New(seed)}, nil)
	log.Debug().Uint64("seed", seed).Msg("new-deal")
	return msg(sc.display()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	if sc.live.CardsInHand() {
		return nil, errCardsInHand
	}
	gen := movegen.NewKlondikeGenerator()
	gen.SetPartialRuns(sc.config.PartialRuns)
	ranked := equity.Rank(gen.GenAll(sc.live), sc.live, nil)
	sc.curGenPlays = make([]move.Play, len(ranked))
	var sb strings.Builder
	fmt.Fprintf(&sb, "%3s %-10s %s\n", "#", "Play", "Valuation")
	for i, c := range ranked {
		sc.curGenPlays[i] = c.Play
		fmt.Fprintf(&sb, "%3d %-10s %s\n", i+1, c.Play.ShortDescription(), c.Valuation)
	}
	if len(ranked) == 0 {
		sb.WriteString("No legal plays.\n")
	}
	return msg(sb.String()), nil
}

// commit records p as the next play. before is the table p was made on.
func (sc *ShellController) commit(p move.Play, before, after *table.Table) {
	sc.history = append(sc.history, before)
	sc.plays = append(sc.plays, p)
	sc.live = after
	sc.curGenPlays = nil
	sc.engine = nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	if sc.live.CardsInHand() {
		return nil, errCardsInHand
	}
	if cmd.args == nil {
		return nil, errors.New("usage: play <notation|n>")
	}
	var p move.Play
	if n, err := strconv.Atoi(cmd.args[0]); err == nil {
		if n < 1 || n > len(sc.curGenPlays) {
			return nil, fmt.Errorf("play %d is not in the last list of %d plays", n, len(sc.curGenPlays))
		}
		p = sc.curGenPlays[n-1]
	} else {
		p, err = move.Parse(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if err := move.Validate(p, sc.live); err != nil {
		return nil, err
	}
	sc.commit(p, sc.live, move.Apply(p, sc.live))
	sc.cursor = table.NewCursor()
	sc.cursor.PartialRuns = sc.config.PartialRuns
	return msg(sc.display()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	if sc.live.CardsInHand() {
		return nil, errCardsInHand
	}
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	last := len(sc.history) - 1
	sc.live = sc.history[last]
	sc.history = sc.history[:last]
	sc.plays = sc.plays[:last]
	sc.curGenPlays = nil
	sc.engine = nil
	sc.cursor = table.NewCursor()
	sc.cursor.PartialRuns = sc.config.PartialRuns
	return msg(sc.display()), nil
}

func (sc *ShellController) next(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	sc.cursor.GoNext(sc.live)
	return msg(sc.display()), nil
}

func (sc *ShellController) prev(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	sc.cursor.GoPrevious(sc.live)
	return msg(sc.display()), nil
}

// selectCursor commits the cursor. A deal or a drop onto a new stack is
// recorded as a play; lifting only changes the live table.
func (sc *ShellController) selectCursor(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	if !sc.live.CardsInHand() && sc.cursor.Source.Stack == table.Stock {
		p := move.DrawFromStock
		if !sc.live.HasCardsInStock() {
			p = move.RecycleWaste
		}
		if err := move.Validate(p, sc.live); err != nil {
			return nil, err
		}
	}
	var before *table.Table
	if sc.live.CardsInHand() {
		before = sc.liftedFrom
	} else {
		before = sc.live
		sc.live = sc.live.Clone()
	}
	res := sc.cursor.Commit(sc.live)
	switch {
	case res.Dealt:
		p := move.DrawFromStock
		if res.Recycled {
			p = move.RecycleWaste
		}
		sc.commit(p, before, sc.live)
	case res.Lifted:
		sc.liftedFrom = before
	case res.Placed && res.To != res.From.Stack:
		sc.commit(move.MoveCards(res.From, res.To), before, sc.live)
		sc.liftedFrom = nil
	case res.Placed:
		// put back where it came from
		sc.live = before
		sc.liftedFrom = nil
	default:
		sc.live = before
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) solveOptions(cmd *shellcmd) (solver.Options, error) {
	opts := sc.config.SolverOptions()
	if v, ok := cmd.options["iterations"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("bad iterations %q: %w", v, err)
		}
		opts.MaxIterations = n
	}
	for key, dst := range map[string]*bool{"prune": &opts.PruneVisited, "partial": &opts.PartialRuns} {
		if v, ok := cmd.options[key]; ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, fmt.Errorf("bad %s %q: %w", key, v, err)
			}
			*dst = b
		}
	}
	return opts, nil
}

// background runs job on its own goroutine in the interactive loop and
// inline otherwise. Only one job runs at a time.
func (sc *ShellController) background(job func(ctx context.Context) string) (*Response, error) {
	sc.solveMu.Lock()
	if sc.solveCancel != nil {
		sc.solveMu.Unlock()
		return nil, errSolving
	}
	ctx, cancel := context.WithCancel(context.Background())
	sc.solveCancel = cancel
	sc.solveMu.Unlock()

	done := func() {
		sc.solveMu.Lock()
		sc.solveCancel = nil
		sc.solveMu.Unlock()
		cancel()
	}
	if !sc.async {
		defer done()
		return msg(job(ctx)), nil
	}
	go func() {
		defer done()
		sc.showMessage(job(ctx))
	}()
	return msg("Started in the background; use solve stop to cancel."), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if cmd.args != nil && cmd.args[0] == "stop" {
		sc.solveMu.Lock()
		defer sc.solveMu.Unlock()
		if sc.solveCancel == nil {
			return nil, errors.New("nothing is running")
		}
		sc.solveCancel()
		return msg("Stopping..."), nil
	}
	if !sc.dealt {
		return nil, errNoTable
	}
	if sc.live.CardsInHand() {
		return nil, errCardsInHand
	}
	opts, err := sc.solveOptions(cmd)
	if err != nil {
		return nil, err
	}
	root := sc.live.Clone()
	seed := sc.seed
	fresh := len(sc.plays) == 0
	made := append([]move.Play(nil), sc.plays...)

	return sc.background(func(ctx context.Context) string {
		res := solver.Solve(ctx, root, opts)
		sc.solveMu.Lock()
		sc.lastResult = &res
		sc.solveMu.Unlock()
		if fresh && res.Outcome != solver.OutcomeCanceled {
			if s, err := sc.resultStore(ctx); err != nil {
				log.Err(err).Msg("open-results-db")
			} else if err := s.Record(ctx, seed, res); err != nil {
				log.Err(err).Uint64("seed", seed).Msg("record-result")
			}
		}
		return describeResult(res, made)
	})
}

func describeResult(res solver.Result, made []move.Play) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Outcome: %s after %d iterations (max depth %d, %d positions visited, %d pruned) in %s\n",
		res.Outcome, res.Iterations, res.MaxDepth, res.Visited, res.Pruned, res.Elapsed)
	if res.Won() {
		fmt.Fprintf(&sb, "Solution (%d plays from here):\n", len(res.Plays))
		notation := make([]string, len(res.Plays))
		for i, p := range res.Plays {
			notation[i] = p.ShortDescription()
		}
		sb.WriteString(strings.Join(notation, " "))
		sb.WriteString("\n")
		if len(made) > 0 {
			fmt.Fprintf(&sb, "(after the %d plays already made)\n", len(made))
		}
	}
	return sb.String()
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	if sc.live.CardsInHand() {
		return nil, errCardsInHand
	}
	if sc.solving() {
		return nil, errSolving
	}
	n := 1
	if cmd.args != nil {
		if cmd.args[0] == "reset" {
			sc.engine = nil
			return msg("Step search reset."), nil
		}
		var err error
		n, err = strconv.Atoi(cmd.args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("bad step count %q", cmd.args[0])
		}
	}
	if sc.engine == nil {
		sc.engine = solver.NewEngine(sc.live, sc.config.SolverOptions())
	}
	for i := 0; i < n; i++ {
		if sc.engine.Step() {
			break
		}
	}
	return msg(describeFrame(sc.engine)), nil
}

func describeFrame(e *solver.Engine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Iteration %d, depth %d, outcome %s\n",
		e.Iterations(), len(e.Frames())-1, e.Outcome())
	f := e.Current()
	if f == nil {
		sb.WriteString("The search tree is exhausted.\n")
		return sb.String()
	}
	path := e.Path()
	notation := make([]string, len(path))
	for i, p := range path {
		notation[i] = p.ShortDescription()
	}
	fmt.Fprintf(&sb, "Path: %s\n", strings.Join(notation, " "))
	fmt.Fprintf(&sb, "Frame %s via %s\n", f.State, f.Play)
	sb.WriteString(f.Table.ToDisplayText(nil))
	if rem := f.Remaining(); len(rem) > 0 {
		sb.WriteString("Untried:")
		for _, c := range rem {
			sb.WriteString(" ")
			sb.WriteString(c.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if !sc.dealt {
		return nil, errNoTable
	}
	if cmd.args == nil {
		return nil, errors.New("usage: save <file>")
	}
	l := playlog.New(sc.seed, sc.plays)
	l.Won = sc.live.Winner()
	if err := l.Save(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Saved %d plays to %s", len(sc.plays), cmd.args[0])), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if sc.solving() {
		return nil, errSolving
	}
	if cmd.args == nil {
		return nil, errors.New("usage: load <file>")
	}
	l, err := playlog.Load(cmd.args[0])
	if err != nil {
		return nil, err
	}
	history, err := l.Replay()
	if err != nil {
		return nil, err
	}
	plays, err := l.ParsedPlays()
	if err != nil {
		return nil, err
	}
	sc.setTable(l.Seed, history, plays)
	return msg(sc.display()), nil
}

func (sc *ShellController) batch(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: batch <from> <to> [-log file]")
	}
	from, err := strconv.ParseUint(cmd.args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad seed %q: %w", cmd.args[0], err)
	}
	to, err := strconv.ParseUint(cmd.args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad seed %q: %w", cmd.args[1], err)
	}
	store, err := sc.resultStore(context.Background())
	if err != nil {
		return nil, err
	}
	logpath := cmd.options["log"]
	cfg := sc.config

	return sc.background(func(ctx context.Context) string {
		var w io.Writer
		if logpath != "" {
			f, err := os.Create(logpath)
			if err != nil {
				return "Error: " + err.Error()
			}
			defer f.Close()
			w = f
		}
		summary, berr := automatic.RunBatch(ctx, cfg, automatic.SeedRange(from, to), store, w)
		if summary == nil {
			return "Error: " + berr.Error()
		}
		out := fmt.Sprintf("Batch: %d solved, %d won, %d skipped", summary.Solved, summary.Won, summary.Skipped)
		if berr != nil {
			out += " (" + berr.Error() + ")"
		}
		if logpath != "" && summary.Solved > 0 {
			report, err := automatic.AnalyzeLogFile(logpath)
			if err != nil {
				return out + "\nError: " + err.Error()
			}
			out += "\n" + report
		}
		return out
	})
}

func (sc *ShellController) winnable(cmd *shellcmd) (*Response, error) {
	s, err := sc.resultStore(context.Background())
	if err != nil {
		return nil, err
	}
	seeds, err := s.Winnable(context.Background())
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return msg("No winnable seeds recorded."), nil
	}
	strs := make([]string, len(seeds))
	for i, seed := range seeds {
		strs[i] = strconv.FormatUint(seed, 10)
	}
	return msg(fmt.Sprintf("%d winnable seeds: %s", len(seeds), strings.Join(strs, " "))), nil
}

var settingKeys = []string{
	config.ConfigMaxIterations,
	config.ConfigPruneVisited,
	config.ConfigPartialRuns,
	config.ConfigVisitedMemoryFraction,
	config.ConfigThreads,
	config.ConfigResultsDB,
	config.ConfigLogEvery,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		var sb strings.Builder
		for _, k := range settingKeys {
			fmt.Fprintf(&sb, "%-25s %s\n", k, sc.config.Get(k))
		}
		return msg(sb.String()), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(sc.config.Get(key)), nil
	}
	if sc.solving() {
		return nil, errSolving
	}
	if err := sc.config.Set(key, cmd.args[1]); err != nil {
		return nil, err
	}
	sc.cursor.PartialRuns = sc.config.PartialRuns
	sc.engine = nil
	return msg("set " + key + " to " + sc.config.Get(key)), nil
}
