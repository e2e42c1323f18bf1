package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
	"github.com/hydroguard/hydroguard/internal/simulator"
)

// SimulateOptions controls the fake device server.
type SimulateOptions struct {
	Addr           string
	FailPercent    int
	DropRedPercent int
	Out            io.Writer
	Logger         logger.Logger
}

func (o SimulateOptions) validate() error {
	for name, v := range map[string]int{"--fail-rate": o.FailPercent, "--drop-red": o.DropRedPercent} {
		if v < 0 || v > 100 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be a percentage, got %d", name, v),
				"Use a value from 0 to 100")
		}
	}
	return nil
}

// runSimulate serves /sensors until ctx is cancelled.
func runSimulate(ctx context.Context, opts SimulateOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	srv := simulator.NewServer(simulator.Config{
		Addr:           opts.Addr,
		FailPercent:    opts.FailPercent,
		DropRedPercent: opts.DropRedPercent,
		Logger:         opts.Logger,
	})

	return srv.Serve(ctx, func(addr string) {
		fmt.Fprintf(opts.Out, "Serving fake readings at http://%s/sensors\n", addr)
		fmt.Fprintf(opts.Out, "Point HydroGuard at it with: HYDROGUARD_SENSOR_ENDPOINT=http://%s/sensors hydroguard monitor\n", addr)
		fmt.Fprintln(opts.Out, "Press Ctrl+C to stop.")
	})
}
