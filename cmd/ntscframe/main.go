// Command ntscframe captures a composite video signal from an MPO-series
// oscilloscope and reconstructs one frame of it as a FITS image.
//
// The signal is expected on the probe as NTSC baseband video; the scope is
// configured to trigger on line 23 of the odd field and to digitize two
// fields' worth of signal at 50ns per sample.  Amplitude varies between
// sources, so the vertical scale and trigger level may need adjustment on
// the instrument for a clean lock.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/theckman/yacspin"

	"github.com/openwave-gw/godso/framerec"
	"github.com/openwave-gw/godso/gwinstek"
	"github.com/openwave-gw/godso/ntsc"
)

func main() {
	var (
		addr    string
		channel int
		root    string
		prefix  string
		wait    time.Duration
		setup   bool
	)
	flag.StringVar(&addr, "addr", fmt.Sprintf("192.168.0.100:%d", gwinstek.DefaultPort), "scope address, host:port")
	flag.IntVar(&channel, "ch", 1, "input channel the video signal is connected to")
	flag.StringVar(&root, "root", ".", "folder to write frames into")
	flag.StringVar(&prefix, "prefix", "ntsc-", "filename prefix for frames")
	flag.DurationVar(&wait, "wait", 10*time.Second, "how long to wait for a trigger before giving up")
	flag.BoolVar(&setup, "setup", true, "configure timebase, record length and video trigger before capturing")
	flag.Parse()

	scope := gwinstek.NewScope(addr)
	idn, err := scope.Idn()
	if err != nil {
		log.Fatalf("no response from scope at %s: %v", addr, err)
	}
	log.Println("connected to", idn)

	if setup {
		err = configure(scope, channel)
		if err != nil {
			log.Fatal(err)
		}
	}

	spinner, err := yacspin.New(yacspin.Config{
		Frequency: 100 * time.Millisecond,
		CharSet:   yacspin.CharSets[11],
		Message:   "waiting for trigger"})
	if err != nil {
		log.Fatal(err)
	}
	spinner.Start()
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	err = scope.WaitReady(ctx, channel, 50*time.Millisecond)
	if err != nil {
		spinner.StopFail()
		log.Fatalf("no trigger within %v, check the signal: %v", wait, err)
	}
	spinner.Message("downloading waveform")
	wfm, err := scope.AcquireMemory(channel)
	if err != nil {
		spinner.StopFail()
		log.Fatal(err)
	}
	spinner.Stop()
	log.Printf("%d samples at %G s", len(wfm.Data), wfm.DT)

	trig, err := scope.GetTriggerLevel()
	if err != nil {
		log.Fatal(err)
	}
	cfg := ntsc.CaptureConfig{
		Scale:        wfm.Scale,
		Position:     wfm.Position,
		TriggerLevel: trig,
		SamplePeriod: wfm.DT,
		CountsPerDiv: scope.CountsPerDiv,
		CodeCenter:   scope.CodeCenter}
	frame, sync, err := ntsc.Reconstruct(wfm.Data, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if sync.Found {
		log.Println("field-2 sync edge at sample", sync.Index)
	} else {
		log.Println("no field-2 sync edge found, fields may be misaligned")
	}

	rec := &framerec.Recorder{Root: root, Prefix: prefix}
	rec.Incr()
	err = ntsc.WriteFits(rec, frame, ntsc.CaptureCards(cfg))
	if err != nil {
		log.Fatal(err)
	}
}

// configure sets up the capture the reconstruction arithmetic assumes:
// 5ms/div with the trigger point 25ms in, 1M points of record so the sample
// period lands at 50ns, and a video trigger on line 23 of the odd field.
func configure(scope *gwinstek.Scope, channel int) error {
	err := scope.SetTimebase(5e-3)
	if err != nil {
		return err
	}
	err = scope.SetHPosition(2.5e-2)
	if err != nil {
		return err
	}
	err = scope.SetAcqLength(1000000)
	if err != nil {
		return err
	}
	err = scope.SetProbeRatio(channel, 10)
	if err != nil {
		return err
	}
	err = scope.SetTriggerSource(fmt.Sprintf("CH%d", channel))
	if err != nil {
		return err
	}
	err = scope.SetVideoTrigger(gwinstek.NTSCFieldTrigger())
	if err != nil {
		return err
	}
	return scope.Opc()
}
