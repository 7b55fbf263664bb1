package hostio

/*------------------------------------------------------------------
 *
 * Purpose:	Announce the simulator's register-bus TCP listener using
 *		DNS-SD, so local clients can discover it without a
 *		hardcoded host/port.
 *
 *----------------------------------------------------------------*/

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

const serviceType = "_sdrcore-regbus._tcp"

// Announcer advertises the simulator's register-bus port over mDNS so
// a host tool can discover a running core on the LAN.
type Announcer struct {
	responder dnssd.Responder
	cancel    context.CancelFunc
}

// Announce starts advertising name on the given TCP port.
func Announce(ctx context.Context, name string, port int) (*Announcer, error) {
	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: serviceType,
		Port: port,
	}
	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("hostio: build DNS-SD service: %w", err)
	}
	rp, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("hostio: build DNS-SD responder: %w", err)
	}
	if _, err := rp.Add(sv); err != nil {
		return nil, fmt.Errorf("hostio: add DNS-SD service: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = rp.Respond(runCtx) }() //nolint:errcheck

	return &Announcer{responder: rp, cancel: cancel}, nil
}

// Stop ends the announcement.
func (a *Announcer) Stop() { a.cancel() }
