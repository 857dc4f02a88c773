package scpi_test

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/openwave-gw/godso/comm"
	"github.com/openwave-gw/godso/scpi"
)

// fakeInstrument serves newline-terminated commands with canned replies and
// returns its address.  Commands without a '?' are swallowed silently.
func fakeInstrument(t *testing.T, replies map[string]string) string {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatal("could not listen, test aborted:", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				r := bufio.NewReader(conn)
				for {
					line, err := r.ReadString('\n')
					if err != nil {
						return
					}
					cmd := strings.TrimRight(line, "\r\n")
					if !strings.Contains(cmd, "?") {
						continue
					}
					reply, ok := replies[cmd]
					if !ok {
						reply = "ERROR"
					}
					io.WriteString(conn, reply+"\n")
				}
			}(conn)
		}
	}()
	return ln.Addr().String()
}

func newSCPI(addr string) *scpi.SCPI {
	maker := func() (io.ReadWriteCloser, error) {
		return net.Dial("tcp", addr)
	}
	return &scpi.SCPI{Pool: comm.NewPool(1, time.Hour, maker)}
}

func TestIdn(t *testing.T) {
	addr := fakeInstrument(t, map[string]string{
		"*IDN?": "GW,MPO-2102B,SN000001,V1.00",
	})
	s := newSCPI(addr)
	idn, err := s.Idn()
	if err != nil {
		t.Fatal(err)
	}
	if idn != "GW,MPO-2102B,SN000001,V1.00" {
		t.Errorf("got %q", idn)
	}
}

func TestTypedReads(t *testing.T) {
	addr := fakeInstrument(t, map[string]string{
		":CHANnel1:SCALe?":   "2.000000e-01",
		":ACQuire:RECOrd?":   "1000000",
		":CHANnel1:DISPlay?": "1",
	})
	s := newSCPI(addr)

	f, err := s.ReadFloat(":CHANnel1:SCALe?")
	if err != nil {
		t.Fatal(err)
	}
	if f != 0.2 {
		t.Errorf("scale: got %v, want 0.2", f)
	}
	i, err := s.ReadInt(":ACQuire:RECOrd?")
	if err != nil {
		t.Fatal(err)
	}
	if i != 1000000 {
		t.Errorf("record: got %d, want 1000000", i)
	}
	b, err := s.ReadBool(":CHANnel1:DISPlay?")
	if err != nil {
		t.Fatal(err)
	}
	if !b {
		t.Error("display: got false, want true")
	}
}

func TestRawRoutesQueriesAndSets(t *testing.T) {
	addr := fakeInstrument(t, map[string]string{
		"*OPC?": "1",
	})
	s := newSCPI(addr)

	resp, err := s.Raw("*OPC?")
	if err != nil {
		t.Fatal(err)
	}
	if resp != "1" {
		t.Errorf("query response %q, want 1", resp)
	}
	resp, err = s.Raw(":RUN")
	if err != nil {
		t.Fatal(err)
	}
	if resp != "" {
		t.Errorf("set returned %q, want empty", resp)
	}
}
