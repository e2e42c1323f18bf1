package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/logger"
)

func TestSimulateOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    SimulateOptions
		wantErr string
	}{
		{name: "defaults", opts: SimulateOptions{}},
		{name: "bounds", opts: SimulateOptions{FailPercent: 100, DropRedPercent: 0}},
		{name: "negative fail rate", opts: SimulateOptions{FailPercent: -1}, wantErr: "--fail-rate"},
		{name: "drop red over 100", opts: SimulateOptions{DropRedPercent: 101}, wantErr: "--drop-red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunSimulate_ServesUntilCancelled(t *testing.T) {
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- runSimulate(ctx, SimulateOptions{Addr: "127.0.0.1:0", Out: out, Logger: logger.Noop()})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Press Ctrl+C")
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, out.String(), "Serving fake readings at http://127.0.0.1:")
	assert.Contains(t, out.String(), "HYDROGUARD_SENSOR_ENDPOINT=")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not shut down")
	}
}

func TestRunSimulate_RejectsBadOptions(t *testing.T) {
	err := runSimulate(context.Background(), SimulateOptions{FailPercent: 200, Out: &syncBuffer{}})
	require.Error(t, err)
}
