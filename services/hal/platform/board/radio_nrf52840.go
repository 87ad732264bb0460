//go:build tinygo && nrf52840

package board

import (
	"device/arm"
	"device/nrf"
	"strconv"
	"sync"
	"unsafe"

	"handheld-go/errcode"
	"handheld-go/x/logx"

	"tinygo.org/x/bluetooth"
)

// radio wraps the SoftDevice adapter. The connect handler runs from the
// BLE event loop, so the peer state is guarded.
type radio struct {
	adapter *bluetooth.Adapter
	log     *logx.Logger

	mu      sync.Mutex
	peer    bluetooth.Device
	linked  bool
	enabled bool
}

func newRadio() *radio {
	r := &radio{adapter: bluetooth.DefaultAdapter, log: logx.New("ble")}
	r.adapter.SetConnectHandler(func(d bluetooth.Device, connected bool) {
		r.mu.Lock()
		r.peer, r.linked = d, connected
		r.mu.Unlock()
	})
	if err := r.adapter.Enable(); err != nil {
		r.log.Errorf("enable: %v", err)
		return r
	}
	r.enabled = true
	return r
}

func (r *radio) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.linked
}

func (r *radio) Disconnect() error {
	r.mu.Lock()
	d, ok := r.peer, r.linked
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return d.Disconnect()
}

// Deinit stops advertising so no new peer can connect during teardown.
func (r *radio) Deinit() error {
	if !r.enabled {
		return nil
	}
	return r.adapter.DefaultAdvertisement().Stop()
}

// SoftDevice supervisor calls (nrf_sdm.h).
const (
	svcSoftDeviceDisable   = 0x11
	svcSoftDeviceIsEnabled = 0x12
)

func softDeviceEnabled() bool {
	var on uint8
	arm.SVCall1(svcSoftDeviceIsEnabled, unsafe.Pointer(&on))
	return on != 0
}

// disableSoftDevice is safe to call when the SoftDevice is already off.
// Once it returns, POWER, CLOCK and RADIO are no longer restricted.
func disableSoftDevice() error {
	if !softDeviceEnabled() {
		return nil
	}
	if rc := arm.SVCall0(svcSoftDeviceDisable); rc != 0 {
		return &errcode.E{C: errcode.Error, Op: "ble.disable", Msg: "sd_softdevice_disable rc=" + strconv.Itoa(int(rc))}
	}
	return nil
}

func (r *radio) ControllerEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled && softDeviceEnabled()
}

// DisableController shuts the SoftDevice down. Connections still open are
// dropped without a terminate PDU.
func (r *radio) DisableController() error {
	if err := disableSoftDevice(); err != nil {
		return err
	}
	r.mu.Lock()
	r.enabled, r.linked = false, false
	r.mu.Unlock()
	return nil
}

// DeinitController powers the radio peripheral down and releases the
// high-frequency clock the SoftDevice left running.
func (r *radio) DeinitController() error {
	if softDeviceEnabled() {
		return &errcode.E{C: errcode.Busy, Op: "ble.deinit", Msg: "softdevice still enabled"}
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	nrf.RADIO.POWER.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTOP.Set(1)
	return nil
}
