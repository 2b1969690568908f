package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/klondike/solver"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.MaxIterations, solver.DefaultMaxIterations)
	is.Equal(c.VisitedMemoryFraction, solver.DefaultVisitedMemoryFraction)
	is.True(!c.Debug)
	is.True(!c.PruneVisited)
	is.Equal(c.SolverOptions().LogEvery, solver.DefaultLogEvery)
}

func TestLoadLayers(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "klondike.yaml")
	is.NoErr(os.WriteFile(path, []byte("max-iterations: 1234\nthreads: 3\nprune-visited: true\n"), 0o644))

	t.Setenv("KLONDIKE_THREADS", "5")
	c := &Config{}
	is.NoErr(c.Load([]string{"--config", path, "--debug", "--results-db", "/tmp/x.db"}))
	is.True(c.Debug)
	is.Equal(c.ResultsDB, "/tmp/x.db")
	is.Equal(c.MaxIterations, 1234)
	// the environment beats the file
	is.Equal(c.Threads, 5)
	is.True(c.PruneVisited)

	opts := c.SolverOptions()
	is.Equal(opts.MaxIterations, 1234)
	is.True(opts.PruneVisited)
}

func TestLoadRejects(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.True(c.Load([]string{"--no-such-flag"}) != nil)
	err := c.Load([]string{"--visited-memory-fraction", "2"})
	is.True(errors.Is(err, ErrBadConfig))
	err = c.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	is.True(err != nil)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.NoErr(c.Set(ConfigMaxIterations, "77"))
	is.Equal(c.MaxIterations, 77)
	is.Equal(c.Get(ConfigMaxIterations), "77")
	is.NoErr(c.Set(ConfigPartialRuns, "true"))
	is.True(c.PartialRuns)

	is.True(errors.Is(c.Set("bogus", "1"), ErrBadConfig))
	is.True(errors.Is(c.Set(ConfigThreads, "many"), ErrBadConfig))
	is.True(errors.Is(c.Set(ConfigThreads, "-2"), ErrBadConfig))
	is.Equal(c.Threads, 0)
}

func TestPositionalArgs(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	is.NoErr(c.Load([]string{"--debug", "solve", "-iterations", "5"}))
	is.True(c.Debug)
	is.Equal(c.Args(), []string{"solve", "-iterations", "5"})
}
