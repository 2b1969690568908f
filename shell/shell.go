package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/resultstore"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/table"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoTable           = errors.New("no deal on the table; use new first")
	errSolving           = errors.New("the solver is busy; use solve stop first")
	errCardsInHand       = errors.New("cards are in hand; select a target first")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// extractFields splits a line into a command, positional args and
// "-key value" options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: map[string]string{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if len(f) > 1 && strings.HasPrefix(f, "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			cmd.options[f[1:]] = fields[i+1]
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	seed    uint64
	dealt   bool
	live    *table.Table
	history []*table.Table
	plays   []move.Play
	cursor  *table.Cursor
	// liftedFrom is the live table before the hand was lifted.
	liftedFrom *table.Table

	curGenPlays []move.Play
	engine      *solver.Engine

	// async is set by Loop so long searches run in the background.
	async       bool
	solveMu     sync.Mutex
	solveCancel context.CancelFunc
	lastResult  *solver.Result

	storeMu sync.Mutex
	store   *resultstore.Store
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	prompt := "\033[32mklondike>\033[0m "
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/klondike-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg, l.Stdout())
	sc.l = l
	return sc
}

// NewCommandController builds a controller that runs single commands
// with Execute and writes to out, without a terminal.
func NewCommandController(cfg *config.Config, out io.Writer) *ShellController {
	return newController(cfg, out)
}

func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{config: cfg, out: out, cursor: table.NewCursor()}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) solving() bool {
	sc.solveMu.Lock()
	defer sc.solveMu.Unlock()
	return sc.solveCancel != nil
}

func (sc *ShellController) resultStore(ctx context.Context) (*resultstore.Store, error) {
	sc.storeMu.Lock()
	defer sc.storeMu.Unlock()
	if sc.store != nil {
		return sc.store, nil
	}
	s, err := resultstore.Open(ctx, sc.config.ResultsDB)
	if err != nil {
		return nil, err
	}
	sc.store = s
	return s, nil
}

// Cleanup stops any running search and closes the result store.
func (sc *ShellController) Cleanup() {
	sc.solveMu.Lock()
	if sc.solveCancel != nil {
		sc.solveCancel()
	}
	sc.solveMu.Unlock()
	sc.storeMu.Lock()
	defer sc.storeMu.Unlock()
	if sc.store != nil {
		if err := sc.store.Close(); err != nil {
			log.Err(err).Msg("closing-results-db")
		}
	}
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newDeal(cmd)
	case "show":
		return sc.show(cmd)
	case "plays", "gen":
		return sc.generate(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "next":
		return sc.next(cmd)
	case "prev":
		return sc.prev(cmd)
	case "select":
		return sc.selectCursor(cmd)
	case "solve":
		return sc.solve(cmd)
	case "step":
		return sc.step(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "batch":
		return sc.batch(cmd)
	case "winnable":
		return sc.winnable(cmd)
	case "set":
		return sc.set(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("unknown command %q; try help", cmd.cmd)
	}
}

var errExit = errors.New("exit")

// Execute runs one line outside the interactive loop.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.handle(line)
	if errors.Is(err, errExit) {
		sig <- syscall.SIGINT
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	sc.async = true

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.handle(line)
		if errors.Is(err, errExit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
