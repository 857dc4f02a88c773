package gwinstek

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"testing/iotest"
)

// makeBlock frames payload the way the scope does: '#', digit count, length
// field covering payload plus terminator, payload, terminator.
func makeBlock(payload []byte) []byte {
	var buf bytes.Buffer
	length := []byte{}
	length = append(length, []byte(itoa(len(payload)+1))...)
	buf.WriteByte('#')
	buf.WriteByte(byte('0' + len(length)))
	buf.Write(length)
	buf.Write(payload)
	buf.WriteByte('\n')
	return buf.Bytes()
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func TestReadBlockRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	r := bufio.NewReader(bytes.NewReader(makeBlock(payload)))
	got, err := ReadBlock(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload %v, expected %v", got, payload)
	}
	// the terminator must have been consumed too
	if _, err := r.ReadByte(); err == nil {
		t.Error("bytes left on the stream after block consumption")
	}
}

func TestReadBlockFragmentedDelivery(t *testing.T) {
	// one byte per Read call; the block must still be consumed exactly
	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i)
	}
	r := bufio.NewReader(iotest.OneByteReader(bytes.NewReader(makeBlock(payload))))
	got, err := ReadBlock(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("fragmented delivery corrupted the payload")
	}
}

func TestReadBlockErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty stream", []byte{}},
		{"wrong lead byte", []byte("0123")},
		{"missing digit count", []byte("#")},
		{"non-numeric digit count", []byte("#x40")},
		{"non-numeric length field", []byte("#2xy\x00\x00")},
		{"stream closes early", []byte("#2100123")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := bufio.NewReader(bytes.NewReader(tc.data))
			_, err := ReadBlock(r)
			var perr ProtocolError
			if !errors.As(err, &perr) {
				t.Errorf("expected ProtocolError, got %v", err)
			}
		})
	}
}

func TestParseHeader(t *testing.T) {
	line := []byte("Format,2.0;Memory Length,1000;Vertical Scale,2.000000e-01;Vertical Position,-1.248000e+00;Sampling Period,5.000000e-08;junk\n")
	hdr := ParseHeader(line)
	if got := hdr.Int("Memory Length"); got != 1000 {
		t.Errorf("Memory Length = %d, expected 1000", got)
	}
	if got := hdr.Float("Vertical Scale"); got != 0.2 {
		t.Errorf("Vertical Scale = %v, expected 0.2", got)
	}
	if got := hdr.Float("Vertical Position"); got != -1.248 {
		t.Errorf("Vertical Position = %v, expected -1.248", got)
	}
	if got := hdr.Float("Sampling Period"); got != 5e-8 {
		t.Errorf("Sampling Period = %v, expected 5e-8", got)
	}
	if _, ok := hdr["junk"]; ok {
		t.Error("group without a value should be skipped")
	}
}

func TestDecodeSamplesExact(t *testing.T) {
	want := []int16{0, 1, -1, 12345, -12345, 32767, -32768}
	payload := make([]byte, 2*len(want))
	for i, v := range want {
		binary.BigEndian.PutUint16(payload[2*i:], uint16(v))
	}
	got, err := DecodeSamples(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, expected %d", i, got[i], want[i])
		}
	}
}

func TestDecodeSamplesOddLength(t *testing.T) {
	_, err := DecodeSamples([]byte{0x00, 0x01, 0x02})
	var derr DecodeError
	if !errors.As(err, &derr) {
		t.Errorf("expected DecodeError for odd payload, got %v", err)
	}
}
