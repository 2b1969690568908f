// Package playlog saves and restores a deal together with the plays
// made on it.
package playlog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/table"
)

var ErrReplay = errors.New("play log does not replay")

type Log struct {
	Seed       uint64   `json:"seed" yaml:"seed"`
	Plays      []string `json:"plays" yaml:"plays,flow"`
	Outcome    string   `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Won        bool     `json:"won" yaml:"won"`
	Iterations int      `json:"iterations,omitempty" yaml:"iterations,omitempty"`
}

func New(seed uint64, plays []move.Play) *Log {
	l := &Log{Seed: seed, Plays: make([]string, len(plays))}
	for i, p := range plays {
		l.Plays[i] = p.ShortDescription()
	}
	return l
}

// FromResult records a solver run on the deal for seed.
func FromResult(seed uint64, res solver.Result) *Log {
	l := New(seed, res.Plays)
	l.Outcome = res.Outcome.String()
	l.Won = res.Won()
	l.Iterations = res.Iterations
	return l
}

func (l *Log) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

func Unmarshal(data []byte) (*Log, error) {
	l := &Log{}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("unmarshal play log: %w", err)
	}
	return l, nil
}

func (l *Log) Save(path string) error {
	out, err := l.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ParsedPlays decodes the notation strings.
func (l *Log) ParsedPlays() ([]move.Play, error) {
	plays := make([]move.Play, 0, len(l.Plays))
	for i, s := range l.Plays {
		p, err := move.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("play %d: %w", i, err)
		}
		plays = append(plays, p)
	}
	return plays, nil
}

// Replay deals the seed and applies every play, checking each one. It
// returns every table along the way, the deal first.
func (l *Log) Replay() ([]*table.Table, error) {
	plays, err := l.ParsedPlays()
	if err != nil {
		return nil, err
	}
	t := table.New(l.Seed)
	history := make([]*table.Table, 0, len(plays)+1)
	history = append(history, t)
	for i, p := range plays {
		if err := move.Validate(p, t); err != nil {
			return history, fmt.Errorf("%w: play %d (%v): %w", ErrReplay, i, p, err)
		}
		t = move.Apply(p, t)
		history = append(history, t)
	}
	if l.Won && !t.Winner() {
		return history, fmt.Errorf("%w: log claims a win but the final table is not won", ErrReplay)
	}
	return history, nil
}
