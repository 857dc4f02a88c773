package gwinstek

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/openwave-gw/godso/oscilloscope"
)

// ProtocolError is generated when the response framing from the scope is
// malformed: a missing or non-numeric block length field, or a stream that
// closes before the declared length arrives.  It is fatal for the
// acquisition attempt; the caller decides whether to re-trigger and retry.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scope framing error: %s: %v", e.Reason, e.Err)
	}
	return "scope framing error: " + e.Reason
}

func (e ProtocolError) Unwrap() error { return e.Err }

// ReadHeaderLine consumes one metadata header line, ASCII key/value pairs
// (';'-separated groups, ','-separated key,value) terminated by '\n',
// and parses it.  Groups that are not a key,value pair are skipped.
func ReadHeaderLine(r *bufio.Reader) (oscilloscope.Header, error) {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return nil, ProtocolError{Reason: "header line not terminated", Err: err}
	}
	return ParseHeader(line), nil
}

// ParseHeader parses a metadata header line into a Header.
func ParseHeader(line []byte) oscilloscope.Header {
	line = bytes.TrimRight(line, "\r\n")
	hdr := oscilloscope.Header{}
	for _, group := range bytes.Split(line, []byte{';'}) {
		kv := bytes.SplitN(group, []byte{','}, 2)
		if len(kv) != 2 {
			continue
		}
		hdr[string(kv[0])] = string(kv[1])
	}
	return hdr
}

// ReadBlock consumes exactly one binary block from r and returns its payload.
//
// The framing is '#', one ASCII digit N, N ASCII digits giving the length L,
// then L-1 bytes of payload, then one terminator byte.  Exactly L bytes are
// consumed after the length field regardless of how the transport fragments
// delivery; the terminator is stripped from the returned payload.
func ReadBlock(r *bufio.Reader) ([]byte, error) {
	lead, err := r.ReadByte()
	if err != nil {
		return nil, ProtocolError{Reason: "stream closed before block start", Err: err}
	}
	if lead != '#' {
		return nil, ProtocolError{Reason: fmt.Sprintf("block started with %q, expected '#'", lead)}
	}
	digit, err := r.ReadByte()
	if err != nil {
		return nil, ProtocolError{Reason: "stream closed before digit count", Err: err}
	}
	if digit < '0' || digit > '9' {
		return nil, ProtocolError{Reason: fmt.Sprintf("digit count byte %q is not numeric", digit)}
	}
	ndigits := int(digit - '0')
	lenField := make([]byte, ndigits)
	if _, err = io.ReadFull(r, lenField); err != nil {
		return nil, ProtocolError{Reason: "stream closed inside length field", Err: err}
	}
	length, err := strconv.Atoi(string(lenField))
	if err != nil {
		return nil, ProtocolError{Reason: fmt.Sprintf("length field %q failed integer parsing", lenField), Err: err}
	}
	if length < 1 {
		return nil, ProtocolError{Reason: fmt.Sprintf("declared block length %d is too short", length)}
	}
	// L bytes total: L-1 of payload, then the terminator
	body := make([]byte, length)
	if _, err = io.ReadFull(r, body); err != nil {
		return nil, ProtocolError{Reason: fmt.Sprintf("stream closed before %d declared bytes arrived", length), Err: err}
	}
	return body[:length-1], nil
}
