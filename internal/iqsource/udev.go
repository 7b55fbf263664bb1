package iqsource

/*------------------------------------------------------------------
 *
 * Purpose:	Wait for a USB SDR dongle to appear on the bus before
 *		starting the simulator's sample clock, the behavioural
 *		analogue of sdr_reset being released once hardware is
 *		present, using udev for device hot-plug detection.
 *
 *----------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// DongleWatcher blocks a caller until a matching USB device's "add"
// event is observed on the udev netlink socket.
type DongleWatcher struct {
	u *udev.Udev
}

// NewDongleWatcher builds a watcher.
func NewDongleWatcher() *DongleWatcher {
	return &DongleWatcher{u: &udev.Udev{}}
}

// WaitForAdd blocks until a "usb" subsystem device matching vendor
// appears, or ctx is cancelled.
func (w *DongleWatcher) WaitForAdd(ctx context.Context, vendorID string) error {
	mon := w.u.NewMonitorFromNetlink("udev")
	mon.FilterAddMatchSubsystem("usb")

	devCh, errCh, err := mon.DeviceChan(ctx)
	if err != nil {
		return fmt.Errorf("iqsource: start udev monitor: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return fmt.Errorf("iqsource: udev monitor: %w", err)
		case dev := <-devCh:
			if dev.Action() != "add" {
				continue
			}
			if vendorID == "" || dev.PropertyValue("ID_VENDOR_ID") == vendorID {
				return nil
			}
		}
	}
}
