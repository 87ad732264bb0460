package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device, applied over Defaults()
// -----------------------------------------------------------------------------

// Host simulator; pin numbers match platform/sim.
const cfgSim = `{
  "power": {
    "status_hold_ms": 1000
  },
  "buttons": {
    "poll_ms": 20,
    "buttons": [
      {"name": "power",  "pin": 3, "threshold_ms": 1500},
      {"name": "select", "pin": 2, "threshold_ms": 1500}
    ]
  },
  "pins": {"sensor_power": 26, "backlight": 27, "wake": 2, "power": 3},
  "heartbeat": {"interval": 2}
}`

// nRF52840 handheld with a 296x128 UC8151 panel.
const cfgHandheld = `{
  "power": {
    "poll_ms": 10,
    "disconnect_timeout_ms": 2000,
    "release_timeout_ms": 5000,
    "status_label": "Sleeping...",
    "wake_hint": "hold SELECT to wake"
  },
  "buttons": {
    "poll_ms": 20,
    "buttons": [
      {"name": "power",  "pin": 11, "threshold_ms": 1500},
      {"name": "select", "pin": 12, "threshold_ms": 1500}
    ]
  },
  "pins": {"sensor_power": 24, "backlight": 25, "wake": 12, "power": 11}
}`

// Linux bench rig; pins are gpiochip line numbers.
const cfgBench = `{
  "buttons": {
    "poll_ms": 20,
    "buttons": [
      {"name": "power",  "pin": 17, "threshold_ms": 1500},
      {"name": "select", "pin": 27, "threshold_ms": 1000}
    ]
  },
  "pins": {"sensor_power": 22, "backlight": 23, "wake": 27, "power": 17}
}`

var embeddedConfigs = map[string][]byte{
	"sim":      []byte(cfgSim),
	"handheld": []byte(cfgHandheld),
	"bench":    []byte(cfgBench),
}
