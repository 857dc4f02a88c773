/*Package usbtmc implements bulk-transfer datagram encoding and decoding for
USB Test and Measurement Class devices.  It is the minimum needed to carry
newline-terminated SCPI to an MPO-series oscilloscope over USB.

Multi-packet messaging is not supported; a command or reply must fit in a
single bulk transfer.  Waveform downloads should use the LAN socket instead.

Device satisfies io.ReadWriteCloser, so it drops into a comm.Pool the same
way a TCP or serial connection does.
*/
package usbtmc

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/google/gousb"
)

const (
	reserved = 0x00

	// bulk message IDs, USBTMC standard table 2
	devDepMsgOut       = 0x01
	requestDevDepMsgIn = 0x02

	headerSize = 12
	bufSize    = 1500
)

// bTagGen is a concurrent-safe bTag generator.  Tags increment per message
// and wrap within 1..255; zero is forbidden by the standard.
type bTagGen struct {
	sync.Mutex
	value byte
}

func (b *bTagGen) next() byte {
	b.Lock()
	defer b.Unlock()
	b.value++
	if b.value == 0 {
		b.value = 1
	}
	return b.value
}

// invbTag computes the bitwise inversion of a bTag, standard table 1 offset 2
func invbTag(b byte) byte {
	return b ^ 0xff
}

// encBulkOutHeader creates the DEV_DEP_MSG_OUT header, standard table 3.
// transferSize counts message bytes exclusive of header and alignment.
func encBulkOutHeader(tag byte, datalen int) [headerSize]byte {
	out := [headerSize]byte{}
	out[0] = devDepMsgOut
	out[1] = tag
	out[2] = invbTag(tag)
	out[3] = reserved
	binary.LittleEndian.PutUint32(out[4:8], uint32(datalen))
	out[8] = 0x01 // EOM: every write is a complete message
	return out
}

// encBulkInHeader creates the REQUEST_DEV_DEP_MSG_IN header, standard table 4.
// A non-nil terminator asks the device to end the datagram on that byte.
func encBulkInHeader(tag byte, bufsize int, terminator *byte) [headerSize]byte {
	out := [headerSize]byte{}
	out[0] = requestDevDepMsgIn
	out[1] = tag
	out[2] = invbTag(tag)
	out[3] = reserved
	binary.LittleEndian.PutUint32(out[4:8], uint32(bufsize))
	if terminator != nil {
		out[8] = 0x02 // TermCharEnabled
		out[9] = *terminator
	}
	return out
}

// Device is a USBTMC instrument connection.  Read and Write exchange whole
// SCPI datagrams; the USBTMC headers are invisible to the caller.
type Device struct {
	tagger bTagGen
	in     *gousb.InEndpoint
	out    *gousb.OutEndpoint
	device *gousb.Device
	iface  *gousb.Interface
	closer func()

	// residue of the last bulk-in transfer not yet consumed by Read
	pending []byte
}

// NewDevice opens the USB device with the given vendor and product ID and
// claims its default interface
func NewDevice(vid, pid uint16) (*Device, error) {
	d := &Device{}
	var err error
	ctx := gousb.NewContext()
	d.device, err = ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		return nil, err
	}
	if d.device == nil {
		return nil, fmt.Errorf("usbtmc: no device with VID:PID %04x:%04x", vid, pid)
	}
	err = d.device.SetAutoDetach(true)
	if err != nil {
		return nil, err
	}
	d.iface, d.closer, err = d.device.DefaultInterface()
	if err != nil {
		return nil, err
	}
	d.in, err = d.iface.InEndpoint(2)
	if err != nil {
		d.closer()
		return nil, err
	}
	d.out, err = d.iface.OutEndpoint(2)
	if err != nil {
		d.closer()
		return nil, err
	}
	return d, nil
}

// ConnMaker adapts NewDevice to the signature comm.Pool wants
func ConnMaker(vid, pid uint16) func() (io.ReadWriteCloser, error) {
	return func() (io.ReadWriteCloser, error) {
		return NewDevice(vid, pid)
	}
}

// Write sends b as one complete device-dependent message.  The transfer is
// padded to a 4-byte boundary as the standard requires.
func (d *Device) Write(b []byte) (int, error) {
	const alignment = 4
	hdr := encBulkOutHeader(d.tagger.next(), len(b))
	msg := append(hdr[:], b...)
	if residual := len(msg) % alignment; residual > 0 {
		msg = append(msg, make([]byte, alignment-residual)...)
	}
	_, err := d.out.Write(msg)
	if err != nil {
		return 0, err
	}
	return len(b), nil
}

// Read requests a device-dependent message and copies its payload into p.
// Payload left over from a transfer larger than p is returned by subsequent
// calls without touching the bus.
func (d *Device) Read(p []byte) (int, error) {
	if len(d.pending) > 0 {
		n := copy(p, d.pending)
		d.pending = d.pending[n:]
		return n, nil
	}
	term := byte('\n')
	hdr := encBulkInHeader(d.tagger.next(), bufSize, &term)
	err := d.writeFull(hdr[:])
	if err != nil {
		return 0, err
	}
	buf := make([]byte, bufSize)
	n, err := d.in.Read(buf)
	if err != nil {
		return 0, err
	}
	if n < headerSize {
		return 0, fmt.Errorf("usbtmc: received %d bytes, need at least %d to form a header", n, headerSize)
	}
	payload := buf[headerSize:n]
	n = copy(p, payload)
	d.pending = payload[n:]
	return n, nil
}

// writeFull pushes b to the out endpoint, retrying once on a short write
func (d *Device) writeFull(b []byte) error {
	n, err := d.out.Write(b)
	if err != nil {
		return err
	}
	if n < len(b) {
		m, err := d.out.Write(b[n:])
		if err != nil {
			return err
		}
		if n+m != len(b) {
			return fmt.Errorf("usbtmc: wrote %d of %d header bytes", n+m, len(b))
		}
	}
	return nil
}

// Close releases the interface and closes the device
func (d *Device) Close() error {
	d.closer()
	return d.device.Close()
}
