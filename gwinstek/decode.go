package gwinstek

import (
	"encoding/binary"
	"fmt"
)

// DecodeError is generated when a block payload cannot be interpreted as
// sample data.  It is fatal for the acquisition attempt.
type DecodeError struct {
	Reason string
}

func (e DecodeError) Error() string {
	return "waveform decode error: " + e.Reason
}

// DecodeSamples interprets a block payload as big-endian two's-complement
// 16-bit words, in order.  The payload must have even length; two bytes make
// one sample.
func DecodeSamples(payload []byte) ([]int16, error) {
	if len(payload)%2 != 0 {
		return nil, DecodeError{Reason: fmt.Sprintf("payload length %d is odd, expected two bytes per sample", len(payload))}
	}
	out := make([]int16, len(payload)/2)
	for i := 0; i < len(out); i++ {
		out[i] = int16(binary.BigEndian.Uint16(payload[2*i:]))
	}
	return out, nil
}
