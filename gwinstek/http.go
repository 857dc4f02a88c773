package gwinstek

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"goji.io/pat"

	"github.com/openwave-gw/godso/generichttp"
	"github.com/openwave-gw/godso/ntsc"
	"github.com/openwave-gw/godso/server"
)

// HTTPWrapper wraps scope operation in an HTTP interface
type HTTPWrapper struct {
	// Scope is the underlying instrument
	*Scope

	// RouteTable is the map of Goji patterns to route handlers
	RouteTable generichttp.RouteTable
}

// NewHTTPWrapper returns a new wrapper with the route table populated
func NewHTTPWrapper(s *Scope) HTTPWrapper {
	w := HTTPWrapper{Scope: s}
	rt := generichttp.RouteTable{
		pat.Post("/raw"):     w.Raw,
		pat.Get("/idn"):      generichttp.GetString(s.Idn),
		pat.Post("/autoset"): post(s.Autoset),
		pat.Post("/run"):     post(s.Run),
		pat.Post("/stop"):    post(s.Stop),
		pat.Post("/single"):  post(s.Single),
		pat.Post("/force"):   post(s.Force),
		pat.Get("/running"):  generichttp.GetBool(s.Running),

		pat.Get("/channel/:ch/scale"):        w.chGetFloat(s.GetScale),
		pat.Post("/channel/:ch/scale"):       w.chSetFloat(s.SetScale),
		pat.Get("/channel/:ch/position"):     w.chGetFloat(s.GetPosition),
		pat.Post("/channel/:ch/position"):    w.chSetFloat(s.SetPosition),
		pat.Get("/channel/:ch/probe-ratio"):  w.chGetFloat(s.GetProbeRatio),
		pat.Post("/channel/:ch/probe-ratio"): w.chSetFloat(s.SetProbeRatio),
		pat.Get("/channel/:ch/coupling"):     w.chGetString(s.GetCoupling),
		pat.Post("/channel/:ch/coupling"):    w.chSetString(s.SetCoupling),
		pat.Get("/channel/:ch/enabled"):      w.chGetBool(s.ChannelEnabled),
		pat.Post("/channel/:ch/enabled"):     w.chSetBool(s.EnableChannel, s.DisableChannel),

		pat.Get("/timebase/scale"):     generichttp.GetFloat(s.GetTimebase),
		pat.Post("/timebase/scale"):    generichttp.SetFloat(s.SetTimebase),
		pat.Get("/timebase/position"):  generichttp.GetFloat(s.GetHPosition),
		pat.Post("/timebase/position"): generichttp.SetFloat(s.SetHPosition),

		pat.Get("/trigger/type"):      generichttp.GetString(s.GetTriggerType),
		pat.Post("/trigger/type"):     generichttp.SetString(s.SetTriggerType),
		pat.Get("/trigger/source"):    generichttp.GetString(s.GetTriggerSource),
		pat.Post("/trigger/source"):   generichttp.SetString(s.SetTriggerSource),
		pat.Get("/trigger/mode"):      generichttp.GetString(s.GetTriggerMode),
		pat.Post("/trigger/mode"):     generichttp.SetString(s.SetTriggerMode),
		pat.Get("/trigger/level"):     generichttp.GetFloat(s.GetTriggerLevel),
		pat.Post("/trigger/level"):    generichttp.SetFloat(s.SetTriggerLevel),
		pat.Get("/trigger/frequency"): generichttp.GetFloat(s.GetTriggerFrequency),
		pat.Post("/trigger/video"):    w.SetVideoTrigger,

		pat.Get("/acquire/length"):      generichttp.GetInt(s.GetAcqLength),
		pat.Post("/acquire/length"):     generichttp.SetInt(s.SetAcqLength),
		pat.Get("/acquire/sample-rate"): generichttp.GetFloat(s.GetSampleRate),

		pat.Get("/awg/:ch/enabled"):    w.chGetBool(s.AWGEnabled),
		pat.Post("/awg/:ch/enabled"):   w.chSetBool(s.EnableAWG, s.DisableAWG),
		pat.Get("/awg/:ch/function"):   w.chGetString(s.GetAWGFunction),
		pat.Post("/awg/:ch/function"):  w.chSetString(s.SetAWGFunction),
		pat.Get("/awg/:ch/frequency"):  w.chGetFloat(s.GetAWGFrequency),
		pat.Post("/awg/:ch/frequency"): w.chSetFloat(s.SetAWGFrequency),
		pat.Get("/awg/:ch/amplitude"):  w.chGetFloat(s.GetAWGAmplitude),
		pat.Post("/awg/:ch/amplitude"): w.chSetFloat(s.SetAWGAmplitude),
		pat.Get("/awg/:ch/offset"):     w.chGetFloat(s.GetAWGOffset),
		pat.Post("/awg/:ch/offset"):    w.chSetFloat(s.SetAWGOffset),

		pat.Get("/power/:ch/enabled"):      w.chGetBool(s.PowerEnabled),
		pat.Post("/power/:ch/enabled"):     w.chSetBool(s.EnablePower, s.DisablePower),
		pat.Get("/power/:ch/voltage"):      w.chGetFloat(s.GetPowerVoltage),
		pat.Post("/power/:ch/voltage"):     w.chSetFloat(s.SetPowerVoltage),
		pat.Get("/power/:ch/overcurrent"):  w.chGetBool(s.PowerOvercurrent),
		pat.Post("/power/:ch/overcurrent"): w.chPost(s.ClearPowerOvercurrent),

		pat.Get("/dmm/enabled"):  generichttp.GetBool(s.DMMEnabled),
		pat.Post("/dmm/enabled"): generichttp.SetBool(s.EnableDMM, s.DisableDMM),
		pat.Post("/dmm/mode"):    generichttp.SetString(s.SetDMMMode),
		pat.Get("/dmm/value"):    generichttp.GetFloat(s.ReadDMM),

		pat.Post("/display/persistence"):       generichttp.SetFloat(s.SetPersistence),
		pat.Get("/display/persistence"):        generichttp.GetString(s.GetPersistence),
		pat.Post("/display/persistence/clear"): post(s.ClearPersistence),

		pat.Get("/channel/:ch/waveform.csv"): w.WaveformCSV,
		pat.Get("/channel/:ch/frame.fits"):   w.FrameFits,
	}
	w.RouteTable = rt
	return w
}

// RT satisfies generichttp.HTTPer
func (h HTTPWrapper) RT() generichttp.RouteTable {
	return h.RouteTable
}

func post(fcn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fcn(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func channelOf(r *http.Request) (int, error) {
	ch, err := strconv.Atoi(chi.URLParam(r, "ch"))
	if err != nil {
		return 0, fmt.Errorf("channel must be an integer, got %q", chi.URLParam(r, "ch"))
	}
	return ch, nil
}

func (h HTTPWrapper) chGetFloat(fcn func(int) (float64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		generichttp.GetFloat(func() (float64, error) { return fcn(ch) })(w, r)
	}
}

func (h HTTPWrapper) chSetFloat(fcn func(int, float64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		generichttp.SetFloat(func(f float64) error { return fcn(ch, f) })(w, r)
	}
}

func (h HTTPWrapper) chGetString(fcn func(int) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		generichttp.GetString(func() (string, error) { return fcn(ch) })(w, r)
	}
}

func (h HTTPWrapper) chSetString(fcn func(int, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		generichttp.SetString(func(s string) error { return fcn(ch, s) })(w, r)
	}
}

func (h HTTPWrapper) chGetBool(fcn func(int) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		generichttp.GetBool(func() (bool, error) { return fcn(ch) })(w, r)
	}
}

func (h HTTPWrapper) chPost(fcn func(int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		post(func() error { return fcn(ch) })(w, r)
	}
}

func (h HTTPWrapper) chSetBool(enable, disable func(int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch, err := channelOf(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		generichttp.SetBool(
			func() error { return enable(ch) },
			func() error { return disable(ch) },
		)(w, r)
	}
}

// Raw sends text to the scope and returns the text it replies with, if any.
// Do not include terminators, the server will take care of it for you.
func (h HTTPWrapper) Raw(w http.ResponseWriter, r *http.Request) {
	s := server.StrT{}
	err := json.NewDecoder(r.Body).Decode(&s)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.Scope.Raw(s.Str)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write(append([]byte(resp), '\n'))
}

// SetVideoTrigger configures a composite video trigger from a JSON body
func (h HTTPWrapper) SetVideoTrigger(w http.ResponseWriter, r *http.Request) {
	vt := VideoTrigger{}
	err := json.NewDecoder(r.Body).Decode(&vt)
	defer r.Body.Close()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err = h.Scope.SetVideoTrigger(vt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// WaveformCSV acquires the channel's memory and streams it back as
// time,volts CSV
func (h HTTPWrapper) WaveformCSV(w http.ResponseWriter, r *http.Request) {
	ch, err := channelOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wfm, err := h.Scope.AcquireMemory(ch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	err = wfm.EncodeCSV(w)
	if err != nil {
		// too late for an error status, the body is in flight
		return
	}
}

// FrameFits acquires the channel's memory, reconstructs a video frame from
// it, and returns the frame as a 16-bit FITS image
func (h HTTPWrapper) FrameFits(w http.ResponseWriter, r *http.Request) {
	ch, err := channelOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wfm, err := h.Scope.AcquireMemory(ch)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	trig, err := h.Scope.GetTriggerLevel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	cfg := ntsc.CaptureConfig{
		Scale:        wfm.Scale,
		Position:     wfm.Position,
		TriggerLevel: trig,
		SamplePeriod: wfm.DT,
		CountsPerDiv: h.Scope.CountsPerDiv,
		CodeCenter:   h.Scope.CodeCenter,
	}
	frame, sync, err := ntsc.Reconstruct(wfm.Data, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/fits")
	w.Header().Set("X-Sync-Found", strconv.FormatBool(sync.Found))
	w.WriteHeader(http.StatusOK)
	ntsc.WriteFits(w, frame, ntsc.CaptureCards(cfg))
}
