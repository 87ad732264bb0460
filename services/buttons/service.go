package buttons

import (
	"context"
	"time"

	"handheld-go/bus"
	"handheld-go/services/config"
	"handheld-go/services/hal/halcore"
	"handheld-go/types"
	"handheld-go/x/logx"
)

const DefaultPollInterval = 20 * time.Millisecond

var topicConfigButtons = bus.T("config", "buttons")

// EventTopic is buttons/<name>/event.
func EventTopic(name string) bus.Topic { return bus.T("buttons", name, "event") }

// Button binds an active-low pin to its detector.
type Button struct {
	Name     string
	Pin      halcore.GPIOPin
	Detector *Detector
}

type Service struct {
	buttons  []Button
	clock    halcore.Clock
	interval time.Duration
	log      *logx.Logger
}

func NewService(clock halcore.Clock, interval time.Duration, buttons ...Button) *Service {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Service{buttons: buttons, clock: clock, interval: interval, log: logx.New("buttons")}
}

// PollOnce samples every button once and publishes any long press.
func (s *Service) PollOnce(conn *bus.Connection) {
	now := s.clock.NowMs()
	for _, b := range s.buttons {
		pressed := !b.Pin.Get()
		held := b.Detector.HeldMs(now)
		if !b.Detector.Poll(pressed, now) {
			continue
		}
		s.log.Infof("%s long press (%dms)", b.Name, held)
		conn.Publish(conn.NewMessage(EventTopic(b.Name), types.ButtonEvent{
			Name:   b.Name,
			Kind:   types.ButtonLongPress,
			HeldMs: held,
			TS:     now,
		}, false))
	}
}

// applyConfig updates thresholds of buttons named in cfg.
func (s *Service) applyConfig(cfg config.Buttons) {
	for _, c := range cfg.Buttons {
		for _, b := range s.buttons {
			if b.Name == c.Name && c.ThresholdMs > 0 {
				b.Detector.Threshold = time.Duration(c.ThresholdMs) * time.Millisecond
			}
		}
	}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("stopping")
			return
		case <-tick.C:
			s.PollOnce(conn)
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if cfg, ok := msg.Payload.(config.Buttons); ok {
				s.applyConfig(cfg)
				if cfg.PollMs > 0 {
					tick.Reset(cfg.Poll())
				}
			}
		}
	}
}

// Start subscribes to config updates, then runs the polling loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn, conn.Subscribe(topicConfigButtons))
	return nil
}
