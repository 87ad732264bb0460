package heartbeat

import (
	"context"
	"io"
	"time"

	"handheld-go/bus"
	"handheld-go/services/config"
	"handheld-go/types"
	"handheld-go/x/logx"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicPowerState      = bus.T("power", "state")
	topicPowerBoot       = bus.T("power", "boot")
)

// Service logs a status line every interval with the latest power state
// and boot count.
type Service struct {
	log *logx.Logger

	state types.PowerStateValue
	boot  types.BootInfo
}

func New() *Service { return &Service{log: logx.New("heartbeat")} }

// NewTo writes status lines to w.
func NewTo(w io.Writer) *Service { return &Service{log: logx.NewTo(w, "heartbeat")} }

func (s *Service) beat(t time.Time) {
	st := s.state.State
	if st == "" {
		st = "unknown"
	}
	s.log.Infof("%s state=%s boot=%d", t.Format("15:04:05"), st, s.boot.Count)
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub, stateSub, bootSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(stateSub)
	defer conn.Unsubscribe(bootSub)

	tick := time.NewTicker(10 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("stopping")
			return
		case t := <-tick.C:
			s.beat(t)
		case msg := <-stateSub.Channel():
			if v, ok := msg.Payload.(types.PowerStateValue); ok {
				s.state = v
			}
		case msg := <-bootSub.Channel():
			if v, ok := msg.Payload.(types.BootInfo); ok {
				s.boot = v
			}
		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(config.Heartbeat)
			if !ok {
				continue
			}
			if cfg.Interval <= 0 {
				tick.Stop()
				s.log.Infof("disabled")
				continue
			}
			tick.Reset(time.Duration(cfg.Interval) * time.Second)
			s.log.Infof("interval set to %d seconds", cfg.Interval)
		}
	}
}

// Start subscribes before returning, so retained and later messages are
// never missed, then runs the loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	stateSub := conn.Subscribe(topicPowerState)
	bootSub := conn.Subscribe(topicPowerBoot)
	go s.serviceLoop(ctx, conn, cfgSub, stateSub, bootSub)
	return nil
}
