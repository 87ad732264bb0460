// cmd/sleepsim runs one power-off on the simulated board and writes the
// panel's last frame to a PNG.
package main

import (
	"context"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"handheld-go/app"
	"handheld-go/bus"
	"handheld-go/services/hal/platform/sim"
	"handheld-go/types"
	"handheld-go/x/logx"

	"golang.org/x/image/draw"
)

func main() {
	out := flag.String("out", "lastframe.png", "PNG output path")
	scale := flag.Int("scale", 3, "upscale factor for the PNG")
	seed := flag.Uint("seed", uint(time.Now().UnixNano()&0xffffffff), "RNG seed for the pattern")
	peerMs := flag.Int64("peer-ms", 0, "connected peer leaves this long after a disconnect request; -1 never leaves, 0 no peer")
	stuck := flag.Bool("stuck", false, "hold the wake button down throughout")
	batt := flag.Int("battery", 72, "battery percent; -1 for no reading")
	flag.Parse()

	log := logx.New("sleepsim")
	o := sim.DefaultOptions()
	o.Seed = uint32(*seed)
	o.Battery = sim.Battery{Pct: *batt, OK: *batt >= 0}
	s := sim.New(o)
	if *peerMs != 0 {
		s.Radio.Connect()
		s.Radio.LeaveAfterMs = *peerMs
	}
	s.Select.Press(*stuck)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d, err := app.Start(ctx, s.Board(), "sim", nil)
	if err != nil {
		log.Errorf("start: %v", err)
		os.Exit(1)
	}

	client := d.Bus.NewConnection("sleepsim")
	rctx, rc := context.WithTimeout(ctx, 10*time.Second)
	reply, err := client.RequestWait(rctx, client.NewMessage(bus.T("power", "cmd", "off"), types.PowerOff{Reason: "sleepsim"}, false))
	rc()
	if err != nil {
		log.Errorf("power service did not answer: %v", err)
		os.Exit(1)
	}
	if r, _ := reply.Payload.(types.PowerOffReply); !r.OK {
		log.Warnf("sleep refused: %s", r.Error)
	}

	rep := d.Context.Controller.LastReport()
	for _, st := range rep.Steps {
		if st.Error != "" {
			log.Warnf("step %s: %s", st.Name, st.Error)
		}
	}
	log.Infof("disconnect wait %dms (timed out: %v), release wait %dms (timed out: %v), aborted: %v",
		rep.DisconnectWaitMs, rep.DisconnectTimedOut, rep.ReleaseWaitMs, rep.ReleaseTimedOut, rep.Aborted)
	log.Infof("simulated time %v", s.Clock.Slept())

	f, ok := s.Display.Last()
	if !ok {
		log.Warnf("nothing was displayed")
		return
	}
	if err := writePNG(*out, f, *scale); err != nil {
		log.Errorf("png: %v", err)
		os.Exit(1)
	}
	log.Infof("wrote %s", *out)
}

func writePNG(path string, f sim.Frame, scale int) error {
	w, h := f.Image.Size()
	src := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !f.Ink(x, y) {
				src.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	if scale < 1 {
		scale = 1
	}
	dst := image.NewGray(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, dst); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
