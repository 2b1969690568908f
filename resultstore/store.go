// Package resultstore keeps solver results per seed in a SQLite file,
// so batch runs can be resumed and winnable deals picked out later.
package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/solver"
)

var ErrNotFound = errors.New("no result for seed")

const schema = `
CREATE TABLE IF NOT EXISTS results (
	seed        INTEGER PRIMARY KEY,
	outcome     TEXT    NOT NULL,
	won         INTEGER NOT NULL,
	iterations  INTEGER NOT NULL,
	max_depth   INTEGER NOT NULL,
	visited     INTEGER NOT NULL,
	plays       TEXT    NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	solved_at   TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS results_won ON results (won);
`

type Record struct {
	Seed       uint64
	Outcome    string
	Won        bool
	Iterations int
	MaxDepth   int
	Visited    int
	// Plays is the solution in play notation, space separated.
	Plays    string
	Elapsed  time.Duration
	SolvedAt time.Time
}

func NewRecord(seed uint64, res solver.Result) Record {
	notation := make([]string, len(res.Plays))
	for i, p := range res.Plays {
		notation[i] = p.ShortDescription()
	}
	return Record{
		Seed:       seed,
		Outcome:    res.Outcome.String(),
		Won:        res.Won(),
		Iterations: res.Iterations,
		MaxDepth:   res.MaxDepth,
		Visited:    res.Visited,
		Plays:      strings.Join(notation, " "),
		Elapsed:    res.Elapsed,
		SolvedAt:   time.Now().UTC(),
	}
}

// ParsedPlays decodes the stored solution.
func (r Record) ParsedPlays() ([]move.Play, error) {
	fields := strings.Fields(r.Plays)
	plays := make([]move.Play, 0, len(fields))
	for _, f := range fields {
		p, err := move.Parse(f)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, nil
}

type Store struct {
	db *sql.DB
}

// Open creates the database file and its schema if needed. Use
// ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	// sqlite serializes writers anyway; one connection also keeps an
	// in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create results schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("results-db-open")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the record for its seed.
func (s *Store) Put(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO results
			(seed, outcome, won, iterations, max_depth, visited, plays, elapsed_ms, solved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(r.Seed), r.Outcome, r.Won, r.Iterations, r.MaxDepth, r.Visited, r.Plays,
		r.Elapsed.Milliseconds(), r.SolvedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store seed %d: %w", r.Seed, err)
	}
	return nil
}

// Record stores a solver result for seed.
func (s *Store) Record(ctx context.Context, seed uint64, res solver.Result) error {
	return s.Put(ctx, NewRecord(seed, res))
}

const selectColumns = `seed, outcome, won, iterations, max_depth, visited, plays, elapsed_ms, solved_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		r         Record
		seed      int64
		elapsedMS int64
		solvedAt  string
	)
	if err := row.Scan(&seed, &r.Outcome, &r.Won, &r.Iterations, &r.MaxDepth, &r.Visited,
		&r.Plays, &elapsedMS, &solvedAt); err != nil {
		return Record{}, err
	}
	r.Seed = uint64(seed)
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	t, err := time.Parse(time.RFC3339, solvedAt)
	if err != nil {
		return Record{}, fmt.Errorf("bad solved_at %q: %w", solvedAt, err)
	}
	r.SolvedAt = t
	return r, nil
}

func (s *Store) Get(ctx context.Context, seed uint64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM results WHERE seed = ?`, int64(seed))
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %d", ErrNotFound, seed)
	}
	return r, err
}

// Has reports whether seed already has a result.
func (s *Store) Has(ctx context.Context, seed uint64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE seed = ?`, int64(seed)).Scan(&n)
	return n > 0, err
}

// Winnable lists the seeds with a recorded win, in ascending order.
func (s *Store) Winnable(ctx context.Context) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seed FROM results WHERE won = 1 ORDER BY seed`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seeds []uint64
	for rows.Next() {
		var seed int64
		if err := rows.Scan(&seed); err != nil {
			return nil, err
		}
		seeds = append(seeds, uint64(seed))
	}
	return seeds, rows.Err()
}

// All returns every record, ordered by seed.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM results ORDER BY seed`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
