package power

import (
	"context"

	"handheld-go/bus"
	"handheld-go/errcode"
	"handheld-go/types"
	"handheld-go/x/logx"
)

var (
	topicCmdOff    = bus.T("power", "cmd", "off")
	topicPowerHold = bus.T("buttons", "power", "event")
)

// Service turns power-off requests and power-button long presses into
// Controller.Shutdown calls.
type Service struct {
	ctl *Controller
	log *logx.Logger
}

func NewService(ctl *Controller) *Service {
	return &Service{ctl: ctl, log: logx.New("power")}
}

func (s *Service) handleOff(ctx context.Context, conn *bus.Connection, msg *bus.Message) {
	reason := "request"
	if p, ok := msg.Payload.(types.PowerOff); ok && p.Reason != "" {
		reason = p.Reason
	}
	err := s.ctl.Shutdown(ctx, reason)
	if err != nil {
		s.log.Warnf("power off refused: %v", err)
	}
	if len(msg.ReplyTo) == 0 {
		return
	}
	rep := types.PowerOffReply{OK: err == nil}
	if err != nil {
		rep.Error = string(errcode.Of(err))
	}
	_ = conn.Reply(msg, rep, false)
}

func (s *Service) handleButton(ctx context.Context, msg *bus.Message) {
	ev, ok := msg.Payload.(types.ButtonEvent)
	if !ok || ev.Kind != types.ButtonLongPress {
		return
	}
	if err := s.ctl.Shutdown(ctx, "long_press"); err != nil {
		s.log.Warnf("long press shutdown: %v", err)
	}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, offSub, btnSub *bus.Subscription) {
	defer conn.Unsubscribe(offSub)
	defer conn.Unsubscribe(btnSub)

	for {
		select {
		case <-ctx.Done():
			s.log.Infof("stopping")
			return
		case msg, ok := <-offSub.Channel():
			if !ok {
				return
			}
			s.handleOff(ctx, conn, msg)
		case msg, ok := <-btnSub.Channel():
			if !ok {
				return
			}
			s.handleButton(ctx, msg)
		}
	}
}

// Start subscribes before returning: a power-off published as soon as
// Start returns is always handled.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	offSub := conn.Subscribe(topicCmdOff)
	btnSub := conn.Subscribe(topicPowerHold)
	go s.serviceLoop(ctx, conn, offSub, btnSub)
	return nil
}
