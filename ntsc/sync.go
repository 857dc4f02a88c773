package ntsc

// SyncResult is the outcome of a vertical sync search.  When no qualifying
// edge exists in the window, Index is the window's nominal center and Found
// is false; field-2 alignment is then degraded but reconstruction proceeds.
type SyncResult struct {
	Index int
	Found bool
}

// FindSyncEdge scans buf over [center-halfwidth, center+halfwidth) in
// ascending index order and returns the first index whose sample falls below
// threshold, i.e. the falling edge of the vertical sync pulse.  Absence of a
// crossing is not an error; the caller decides what degraded alignment is
// worth to it.
func FindSyncEdge(buf []int16, center, halfwidth, threshold int) SyncResult {
	lo := center - halfwidth
	hi := center + halfwidth
	if lo < 0 {
		lo = 0
	}
	if hi > len(buf) {
		hi = len(buf)
	}
	for i := lo; i < hi; i++ {
		if int(buf[i]) < threshold {
			return SyncResult{Index: i, Found: true}
		}
	}
	return SyncResult{Index: center, Found: false}
}
