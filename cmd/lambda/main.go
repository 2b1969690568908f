package main

import (
	"context"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/playlog"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/table"
)

var cfg *config.Config
var nc *nats.Conn

const HardTimeLimit = 180 // max time per deal in seconds

// SolveEvent asks for one deal to be solved. The play log is returned
// and, if ReplyChannel is set, also published there over NATS.
type SolveEvent struct {
	Seed          uint64 `json:"seed"`
	MaxIterations int    `json:"max_iterations,omitempty"`
	ReplyChannel  string `json:"reply_channel,omitempty"`
}

func HandleRequest(ctx context.Context, evt SolveEvent) (string, error) {
	logger := log.With().
		Uint64("seed", evt.Seed).
		Logger()

	opts := cfg.SolverOptions()
	if evt.MaxIterations > 0 {
		opts.MaxIterations = evt.MaxIterations
	}
	ctx, cancel := context.WithTimeout(ctx, HardTimeLimit*time.Second)
	res := solver.Solve(ctx, table.New(evt.Seed), opts)
	cancel()

	data, err := playlog.FromResult(evt.Seed, res).Marshal()
	if err != nil {
		return "", err
	}
	if evt.ReplyChannel != "" {
		logger.Info().Str("outcome", res.Outcome.String()).Msg("solve-done-sending-via-nats")
		err = retry.Do(
			func() error {
				_, err := nc.Request(evt.ReplyChannel, data, 3*time.Second)
				if err != nil {
					return err
				}
				// Only the acknowledgement matters.
				return nil
			},
			retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
				logger.Err(err).Uint("n", n).
					Msg("did-not-receive-ack-try-again")
				return retry.BackOffDelay(n, err, config)
			}),
		)
		if err != nil {
			logger.Err(err).Msg("reply-failed")
		}
	}
	logger.Info().Msg("exiting-fn")
	return string(data), nil
}

func main() {
	cfg = &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var err error
	nc, err = nats.Connect(cfg.NatsURL)
	if err != nil {
		log.Fatal().AnErr("natsConnectErr", err).Msg(":(")
	}

	lambda.Start(HandleRequest)
}
