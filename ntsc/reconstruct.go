package ntsc

import (
	"fmt"
	"math"
)

const (
	// Field1BaseOffset is the sample index where field-1 active video
	// starts, an instrument-specific constant for the MPO's video trigger
	Field1BaseOffset = 200

	// SyncSearchHalfWidth bounds the trigger jitter the field-2 sync
	// search tolerates, in samples either side of nominal
	SyncSearchHalfWidth = 10
)

// Reconstruct runs the whole pipeline over one decoded acquisition: locate
// the field-2 sync edge, assemble both fields, normalize to a raster.  The
// returned SyncResult reports whether field-2 alignment came from a real
// edge or the nominal fallback.
//
// Fatal errors (InsufficientDataError) abort the capture; the caller
// re-triggers and retries from scratch if it wants another go.
func Reconstruct(buf []int16, cfg CaptureConfig) (*Frame, SyncResult, error) {
	cfg = cfg.withDefaults()
	// both divide into the index and threshold arithmetic; a transfer
	// header missing its calibration keys manifests as zeros here
	if cfg.SamplePeriod <= 0 {
		return nil, SyncResult{}, fmt.Errorf("sample period %G is not positive, acquisition header is missing its calibration", cfg.SamplePeriod)
	}
	if cfg.Scale <= 0 {
		return nil, SyncResult{}, fmt.Errorf("vertical scale %G is not positive, acquisition header is missing its calibration", cfg.Scale)
	}
	// nominal start of field 2: one field's worth of lines past field 1
	fieldSpan := int(math.Round(captureLinesPerField * LinePeriod / cfg.SamplePeriod))
	center := Field1BaseOffset + fieldSpan
	sync := FindSyncEdge(buf, center, SyncSearchHalfWidth, cfg.SyncThreshold())
	fields, err := AssembleFields(buf, cfg.SamplePeriod, Field1BaseOffset, sync.Index)
	if err != nil {
		return nil, sync, err
	}
	frame, err := Normalize(fields)
	if err != nil {
		return nil, sync, err
	}
	return frame, sync, nil
}
