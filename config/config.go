package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/klondike/solver"
)

const (
	ConfigDebug                 = "debug"
	ConfigMaxIterations         = "max-iterations"
	ConfigPruneVisited          = "prune-visited"
	ConfigPartialRuns           = "partial-runs"
	ConfigVisitedMemoryFraction = "visited-memory-fraction"
	ConfigThreads               = "threads"
	ConfigResultsDB             = "results-db"
	ConfigNatsURL               = "nats-url"
	ConfigLogEvery              = "log-every"
	ConfigCPUProfile            = "cpu-profile"
	ConfigFile                  = "config"
)

const envPrefix = "KLONDIKE"

type Config struct {
	Debug                 bool
	MaxIterations         int
	PruneVisited          bool
	PartialRuns           bool
	VisitedMemoryFraction float64
	Threads               int
	ResultsDB             string
	NatsURL               string
	LogEvery              int
	CPUProfile            string

	v    *viper.Viper
	args []string
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("klondike", pflag.ContinueOnError)
	// flags stop at the first positional arg; the rest is a shell command
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigMaxIterations, solver.DefaultMaxIterations, "search steps before giving up on a deal (0 for no cap)")
	fs.Bool(ConfigPruneVisited, false, "skip positions the search has already seen")
	fs.Bool(ConfigPartialRuns, false, "allow lifting part of a tableau run")
	fs.Float64(ConfigVisitedMemoryFraction, solver.DefaultVisitedMemoryFraction, "fraction of system memory for the visited set")
	fs.Int(ConfigThreads, 0, "batch solving workers (0 for one per CPU)")
	fs.String(ConfigResultsDB, "./klondike-results.db", "sqlite file for solve results")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server for lambda replies")
	fs.Int(ConfigLogEvery, solver.DefaultLogEvery, "log search progress every n iterations")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigFile, "", "optional yaml config file")
	return fs
}

// Load layers, highest first: command-line flags, KLONDIKE_* environment
// variables, the --config file, then defaults.
func (c *Config) Load(args []string) error {
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(ConfigFile); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	c.v = v
	c.args = fs.Args()
	c.fill()
	return c.validate()
}

// Args returns the positional arguments left after the flags.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) fill() {
	c.Debug = c.v.GetBool(ConfigDebug)
	c.MaxIterations = c.v.GetInt(ConfigMaxIterations)
	c.PruneVisited = c.v.GetBool(ConfigPruneVisited)
	c.PartialRuns = c.v.GetBool(ConfigPartialRuns)
	c.VisitedMemoryFraction = c.v.GetFloat64(ConfigVisitedMemoryFraction)
	c.Threads = c.v.GetInt(ConfigThreads)
	c.ResultsDB = c.v.GetString(ConfigResultsDB)
	c.NatsURL = c.v.GetString(ConfigNatsURL)
	c.LogEvery = c.v.GetInt(ConfigLogEvery)
	c.CPUProfile = c.v.GetString(ConfigCPUProfile)
}

var ErrBadConfig = errors.New("bad config")

func (c *Config) validate() error {
	if c.VisitedMemoryFraction <= 0 || c.VisitedMemoryFraction > 0.9 {
		return fmt.Errorf("%w: %s must be in (0, 0.9]", ErrBadConfig, ConfigVisitedMemoryFraction)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrBadConfig, ConfigThreads)
	}
	return nil
}

// Set overrides a key at runtime, as the shell's set command does.
func (c *Config) Set(key, value string) error {
	if c.v == nil {
		if err := c.Load(nil); err != nil {
			return err
		}
	}
	fs := flagSet()
	if fs.Lookup(key) == nil || key == ConfigFile {
		return fmt.Errorf("%w: unknown key %q", ErrBadConfig, key)
	}
	if err := fs.Set(key, value); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	prev := c.v.Get(key)
	c.v.Set(key, fs.Lookup(key).Value.String())
	c.fill()
	if err := c.validate(); err != nil {
		c.v.Set(key, prev)
		c.fill()
		return err
	}
	return nil
}

// Get returns the current value of a key as a string.
func (c *Config) Get(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// SolverOptions maps the search keys onto solver options.
func (c *Config) SolverOptions() solver.Options {
	return solver.Options{
		MaxIterations:         c.MaxIterations,
		PruneVisited:          c.PruneVisited,
		PartialRuns:           c.PartialRuns,
		VisitedMemoryFraction: c.VisitedMemoryFraction,
		LogEvery:              c.LogEvery,
	}
}

// DefaultConfig is the configuration with no flags, environment or file.
func DefaultConfig() Config {
	c := Config{}
	c.v = viper.New()
	fs := flagSet()
	_ = c.v.BindPFlags(fs)
	c.fill()
	return c
}
