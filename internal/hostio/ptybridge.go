package hostio

/*------------------------------------------------------------------
 *
 * Purpose:	Expose the recorder's packed IQ byte stream to other
 *		applications over a pseudo terminal, and optionally over
 *		a real (or virtual null modem) serial port.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/creack/pty"
	"github.com/pkg/term"
)

// PtyBridge streams recorder bytes out through a pseudo terminal's
// master side. Client applications open the reported slave path.
type PtyBridge struct {
	master *os.File
	slave  *os.File
}

// OpenPtyBridge allocates a new pty pair for streaming recorder output.
func OpenPtyBridge() (*PtyBridge, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("hostio: open pty: %w", err)
	}
	return &PtyBridge{master: master, slave: slave}, nil
}

// SlavePath is the device path a client application should open.
func (b *PtyBridge) SlavePath() string { return b.slave.Name() }

// Write sends packed recorder bytes to whatever is connected to the
// slave side. Returns the count written, or an error if nothing is
// listening.
func (b *PtyBridge) Write(data []byte) (int, error) {
	n, err := b.master.Write(data)
	if err != nil {
		return n, fmt.Errorf("hostio: write pty: %w", err)
	}
	return n, nil
}

// Close releases both ends of the pty.
func (b *PtyBridge) Close() error {
	_ = b.slave.Close()
	return b.master.Close()
}

// SerialBridge streams recorder bytes out a real (or virtual null
// modem) serial device.
type SerialBridge struct {
	fd *term.Term
}

// OpenSerialBridge opens devicename at baud (0 leaves the speed alone)
// in raw mode.
func OpenSerialBridge(devicename string, baud int) (*SerialBridge, error) {
	fd, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("hostio: open serial port %s: %w", devicename, err)
	}
	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		if err := fd.SetSpeed(baud); err != nil {
			return nil, fmt.Errorf("hostio: set speed on %s: %w", devicename, err)
		}
	default:
		return nil, fmt.Errorf("hostio: unsupported serial speed %d", baud)
	}
	return &SerialBridge{fd: fd}, nil
}

// Write sends packed recorder bytes out the serial port.
func (b *SerialBridge) Write(data []byte) (int, error) {
	n, err := b.fd.Write(data)
	if err != nil {
		return n, fmt.Errorf("hostio: write serial port: %w", err)
	}
	return n, nil
}

// Close releases the serial device.
func (b *SerialBridge) Close() error { return b.fd.Close() }
