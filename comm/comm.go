/*Package comm provides connection plumbing for talking to lab instruments.

The pieces compose as follows:

 1. a CreationFunc knows how to open one connection to the instrument
    (TCP, RS232, or USBTMC -- anything that is an io.ReadWriteCloser)
 2. a Pool owns one or more of those connections and leases them out,
    closing idle ones after a timeout
 3. Terminator and Timeout wrap a leased connection to handle message
    termination bytes and deadlines without the caller thinking about them

Higher level packages (scpi, gwinstek) only ever see the Pool.
*/
package comm

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"
)

// ErrTerminatorNotFound is generated when the termination byte is not found in a response
var ErrTerminatorNotFound = errors.New("termination byte not found")

// CreationFunc is a function which returns a new "connection" to something.
// a closure should be used to encapsulate the variables and functions needed.
type CreationFunc func() (io.ReadWriteCloser, error)

// TCPSetup opens a new TCP connection and sets a timeout on connect, read, and write
func TCPSetup(addr string, timeout time.Duration) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(timeout)
	conn.SetReadDeadline(deadline)
	conn.SetWriteDeadline(deadline)
	return conn, nil
}

// BackingOffTCPConnMaker returns a CreationFunc which dials addr with an
// exponential backoff.  Some instruments refuse connections while they
// tear down the previous one; retrying with backoff rides that out.
func BackingOffTCPConnMaker(addr string, timeout time.Duration) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		var conn net.Conn
		op := func() error {
			var err error
			conn, err = TCPSetup(addr, timeout)
			return err
		}
		err := backoff.Retry(op, &backoff.ExponentialBackOff{
			InitialInterval:     25 * time.Millisecond,
			RandomizationFactor: 0.,
			Multiplier:          2.,
			MaxInterval:         1 * time.Second,
			MaxElapsedTime:      3 * time.Second,
			Clock:               backoff.SystemClock})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// SerialConnMaker returns a CreationFunc which opens the serial port
// described by conf
func SerialConnMaker(conf *serial.Config) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		return serial.OpenPort(conf)
	}
}

// Terminator wraps a ReadWriter; writes have the Tx terminator appended if
// absent, and a trailing Rx terminator is trimmed from reads.
type Terminator struct {
	rw io.ReadWriter
	rx byte
	tx byte
}

// NewTerminator returns a Terminator wrapping rw with the given Rx and Tx
// termination bytes
func NewTerminator(rw io.ReadWriter, rx, tx byte) *Terminator {
	return &Terminator{rw: rw, rx: rx, tx: tx}
}

// Write sends p with the Tx terminator appended if p does not already end in
// it.  The returned count never exceeds len(p).
func (t *Terminator) Write(p []byte) (int, error) {
	appended := false
	if len(p) == 0 || p[len(p)-1] != t.tx {
		p = append(p, t.tx)
		appended = true
	}
	n, err := t.rw.Write(p)
	if appended && n == len(p) {
		n--
	}
	return n, err
}

// Read reads from the wrapped ReadWriter and trims a trailing Rx terminator
func (t *Terminator) Read(p []byte) (int, error) {
	n, err := t.rw.Read(p)
	if n > 0 && p[n-1] == t.rx {
		n--
	}
	return n, err
}

// deadliner is the part of net.Conn used by Timeout
type deadliner interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// Timeout wraps a ReadWriter whose underlying connection supports deadlines,
// moving the deadline forward before every Read and Write.  If the connection
// does not support deadlines (e.g. a serial port, which has its own read
// timeout) the input is returned unwrapped.
type Timeout struct {
	rw io.ReadWriter
	d  deadliner
	to time.Duration
}

// NewTimeout wraps rw with deadline bumping if conn supports it.  conn may be
// the same value as rw, or the raw connection beneath a stack of wrappers.
func NewTimeout(rw io.ReadWriter, conn interface{}, to time.Duration) io.ReadWriter {
	if d, ok := conn.(deadliner); ok {
		return &Timeout{rw: rw, d: d, to: to}
	}
	return rw
}

func (t *Timeout) Read(p []byte) (int, error) {
	t.d.SetReadDeadline(time.Now().Add(t.to))
	return t.rw.Read(p)
}

func (t *Timeout) Write(p []byte) (int, error) {
	t.d.SetWriteDeadline(time.Now().Add(t.to))
	return t.rw.Write(p)
}
