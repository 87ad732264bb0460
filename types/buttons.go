package types

// ButtonEventKind names what a button tracker reported.
type ButtonEventKind string

const (
	ButtonLongPress ButtonEventKind = "long_press"
)

// Event payload: buttons/<name>/event
type ButtonEvent struct {
	Name   string          `json:"name"`
	Kind   ButtonEventKind `json:"kind"`
	HeldMs int64           `json:"held_ms"`
	TS     int64           `json:"ts_ms"`
}
