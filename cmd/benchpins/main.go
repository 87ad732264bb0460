// cmd/benchpins watches the two buttons of a Linux bench rig through
// periph.io and prints every long press.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"handheld-go/bus"
	"handheld-go/services/buttons"
	"handheld-go/services/config"
	"handheld-go/services/hal/halcore"
	"handheld-go/services/hal/platform/periphpins"
	"handheld-go/types"
	"handheld-go/x/logx"
	"handheld-go/x/timex"
)

func main() {
	device := flag.String("device", "bench", "embedded config to use")
	flag.Parse()
	log := logx.New("benchpins")

	cfg, err := config.Load(*device)
	if err != nil {
		log.Errorf("config: %v", err)
		os.Exit(1)
	}

	var btns []buttons.Button
	for _, bc := range cfg.Buttons.Buttons {
		p, err := periphpins.Open(bc.Pin)
		if err != nil {
			log.Errorf("%s: %v", bc.Name, err)
			os.Exit(1)
		}
		if err := p.ConfigureInput(halcore.PullUp); err != nil {
			log.Errorf("%s: %v", bc.Name, err)
			os.Exit(1)
		}
		btns = append(btns, buttons.Button{
			Name:     bc.Name,
			Pin:      p,
			Detector: buttons.NewDetector(time.Duration(bc.ThresholdMs) * time.Millisecond),
		})
		log.Infof("watching %s on GPIO%d (%dms)", bc.Name, bc.Pin, bc.ThresholdMs)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := bus.NewBus(8)
	mon := b.NewConnection("monitor")
	events := mon.Subscribe(bus.T("buttons", "+", "event"))
	_ = buttons.NewService(timex.System{}, cfg.Buttons.Poll(), btns...).Start(ctx, b.NewConnection("buttons"))

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-events.Channel():
			if ev, ok := m.Payload.(types.ButtonEvent); ok {
				log.Infof("%s %s after %dms", ev.Name, ev.Kind, ev.HeldMs)
			}
		}
	}
}
