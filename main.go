//go:build tinygo && nrf52840

package main

import (
	"context"
	"time"

	"handheld-go/app"
	"handheld-go/services/config"
	"handheld-go/services/hal/platform/board"
	"handheld-go/x/logx"
)

const device = "handheld"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	log := logx.New("main")

	cfg, err := config.Load(device)
	if err != nil {
		log.Errorf("config: %v", err)
		select {}
	}
	b, err := board.New(cfg.Pins)
	if err != nil {
		log.Errorf("board: %v", err)
		select {}
	}
	if _, err := app.Start(context.Background(), b, device, nil); err != nil {
		log.Errorf("start: %v", err)
	}
	select {}
}
