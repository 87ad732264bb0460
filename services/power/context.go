package power

import (
	"time"

	"handheld-go/bus"
	"handheld-go/services/buttons"
	"handheld-go/services/config"
	"handheld-go/services/hal/halcore"
	"handheld-go/x/noise"
)

// Context is everything that lives for the whole process: the board, its
// capabilities read once at startup, the long-press detectors and the
// controller.
type Context struct {
	Board      halcore.Board
	Caps       halcore.Capabilities
	Config     config.Device
	Buttons    []buttons.Button
	Controller *Controller
}

// NewContext builds the process context and runs the restore path before
// returning, so nothing else can touch the held pins first.
func NewContext(b halcore.Board, cfg config.Device, src noise.ParamSource, conn *bus.Connection) (*Context, error) {
	pc := &Context{
		Board:      b,
		Caps:       b.Chip.Capabilities(),
		Config:     cfg,
		Controller: NewController(b, cfg.Power, src, conn),
	}
	if _, err := pc.Controller.Restore(); err != nil {
		return nil, err
	}
	pins := map[string]halcore.GPIOPin{}
	if b.PowerButton != nil {
		pins["power"] = b.PowerButton
	}
	if b.WakeButton != nil {
		pins["select"] = b.WakeButton
	}
	for _, bc := range cfg.Buttons.Buttons {
		p, ok := pins[bc.Name]
		if !ok {
			continue
		}
		pc.Buttons = append(pc.Buttons, buttons.Button{
			Name:     bc.Name,
			Pin:      p,
			Detector: buttons.NewDetector(time.Duration(bc.ThresholdMs)*time.Millisecond),
		})
	}
	return pc, nil
}

// ButtonService polls the context's detectors.
func (pc *Context) ButtonService() *buttons.Service {
	return buttons.NewService(pc.Board.Clock, pc.Config.Buttons.Poll(), pc.Buttons...)
}
