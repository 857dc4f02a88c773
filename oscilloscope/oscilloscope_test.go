package oscilloscope

import (
	"strings"
	"testing"
)

func TestHeaderAccessors(t *testing.T) {
	h := Header{
		"Sampling Period": "5.000000e-08",
		"Memory Length":   "1000000",
		"Source":          "CH1",
	}
	if got := h.Float("Sampling Period"); got != 5e-8 {
		t.Errorf("Float: got %v, want 5e-08", got)
	}
	if got := h.Int("Memory Length"); got != 1000000 {
		t.Errorf("Int: got %v, want 1000000", got)
	}
	if got := h.Float("Source"); got != 0 {
		t.Errorf("Float on non-numeric: got %v, want 0", got)
	}
	if got := h.Int("missing"); got != 0 {
		t.Errorf("Int on missing key: got %v, want 0", got)
	}
}

func TestWaveformPhysical(t *testing.T) {
	w := Waveform{Scale: 0.2, CountsPerDiv: 25, Data: []int16{0, 25, -50, 125}}
	want := []float64{0, 0.2, -0.4, 1}
	got := w.Physical()
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if w.Data[1] != 25 {
		t.Error("Physical modified the receiver")
	}
}

func TestWaveformCodeShifted(t *testing.T) {
	// shift = round(-1.248 / 0.2 * 25) = round(-156) = -156
	w := Waveform{Scale: 0.2, Position: -1.248, CountsPerDiv: 25, Data: []int16{200, 156, 0}}
	got := w.CodeShifted()
	want := []int16{44, 0, -156}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
	if w.Data[0] != 200 {
		t.Error("CodeShifted modified the receiver")
	}
}

func TestEncodeCSV(t *testing.T) {
	w := Waveform{DT: 1e-6, Scale: 1, CountsPerDiv: 25, Data: []int16{25, 50}}
	var sb strings.Builder
	if err := w.EncodeCSV(&sb); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "time,volts" {
		t.Errorf("header row: got %q", lines[0])
	}
	if lines[1] != "0,1" {
		t.Errorf("first row: got %q, want 0,1", lines[1])
	}
	if lines[2] != "1E-06,2" {
		t.Errorf("second row: got %q, want 1E-06,2", lines[2])
	}
}
