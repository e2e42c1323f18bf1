package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hydroguard/hydroguard/internal/device"
	"github.com/hydroguard/hydroguard/internal/errors"
	"github.com/hydroguard/hydroguard/internal/ui"
)

// DevicesOptions controls the devices command.
type DevicesOptions struct {
	// Pick opens the interactive picker and pairs with the chosen device.
	Pick bool
	Out  io.Writer
	In   io.Reader
}

// runDevices scans once and lists the results.
func runDevices(ctx context.Context, opts DevicesOptions, scanner device.Scanner, connector device.Connector) error {
	if opts.Pick && machineMode {
		return errors.New(errors.ErrConfig,
			"--pick is interactive and can't be combined with --json",
			"Drop one of the two flags")
	}

	var devices []device.Device
	scan := func() error {
		var err error
		devices, err = scanner.Scan(ctx)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrDevice, "Device scan failed",
				"Make sure Bluetooth is on and the band is nearby")
		}
		return nil
	}

	if machineMode {
		if err := scan(); err != nil {
			return err
		}
		if devices == nil {
			devices = []device.Device{}
		}
		return WriteJSONSuccess(opts.Out, devices)
	}

	if err := ui.Spin(opts.Out, "Scanning for devices", scan); err != nil {
		return err
	}

	fmt.Fprintln(opts.Out)
	fmt.Fprint(opts.Out, ui.RenderDeviceTable(devices, ""))

	if !opts.Pick {
		return nil
	}

	picked, err := ui.PickDevice(devices, opts.Out, opts.In)
	if err != nil {
		return err
	}
	if picked == nil {
		fmt.Fprintln(opts.Out, "Cancelled.")
		return nil
	}

	err = ui.Spin(opts.Out, "Connecting to "+picked.Name, func() error {
		if err := connector.Connect(ctx, *picked); err != nil {
			return errors.WrapWithCode(err, errors.ErrDevice, "Could not pair with "+picked.Name,
				"Move closer to the band and try again")
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(opts.Out, "\n%s\n", ui.FormatDeviceLine(*picked))
	fmt.Fprintf(opts.Out, "Start monitoring with: hydroguard monitor --device %s\n", picked.ID)
	return nil
}
