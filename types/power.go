package types

// ------------------------
// Power state (retained)
// ------------------------

// PowerState is the controller's position in the sleep transition.
type PowerState string

const (
	PowerActive       PowerState = "active"
	PowerShuttingDown PowerState = "shutting_down"
	PowerArmingWake   PowerState = "arming_wake"
	PowerSleeping     PowerState = "sleeping"
)

// Retained value: power/state
type PowerStateValue struct {
	State  PowerState `json:"state"`
	Reason string     `json:"reason,omitempty"` // trigger or abort code
	TS     int64      `json:"ts_ms"`
}

// Retained value: power/boot
type BootInfo struct {
	Count         uint32 `json:"count"`
	WokeFromSleep bool   `json:"woke_from_sleep"`
}

// ------------------------
// Controls
// ------------------------

// PowerOff is the payload of power/cmd/off. Reason is free text for logs
// ("menu", "long_press", "low_battery").
type PowerOff struct {
	Reason string `json:"reason"`
}

// PowerOffReply is sent to ReplyTo when the request carried one. On hardware
// the chip powers off first, so only refusals and aborts are ever seen.
type PowerOffReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ------------------------
// Shutdown diagnostics
// ------------------------

// StepResult is one teardown step as it ran.
type StepResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// Retained value: power/shutdown/report
type ShutdownReport struct {
	Steps              []StepResult `json:"steps"`
	DisconnectWaitMs   int64        `json:"disconnect_wait_ms"`
	DisconnectTimedOut bool         `json:"disconnect_timed_out"`
	ReleaseWaitMs      int64        `json:"release_wait_ms"`
	ReleaseTimedOut    bool         `json:"release_timed_out"`
	Aborted            bool         `json:"aborted"`
}
