package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"handheld-go/bus"
	"handheld-go/errcode"
)

func TestEmbeddedConfigs_AllDecode(t *testing.T) {
	for name := range embeddedConfigs {
		d, err := Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(d.Buttons.Buttons) != 2 {
			t.Fatalf("%s: buttons=%v", name, d.Buttons.Buttons)
		}
		if d.Pins.Wake < 0 {
			t.Fatalf("%s: wake pin unset", name)
		}
	}
}

func TestDecode_AppliesDefaults(t *testing.T) {
	d, err := Decode([]byte(`{"power": {"status_label": "Bye"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if d.Power.StatusLabel != "Bye" {
		t.Fatalf("label=%q", d.Power.StatusLabel)
	}
	if d.Power.DisconnectTimeout() != 2000*time.Millisecond ||
		d.Power.ReleaseTimeout() != 5000*time.Millisecond ||
		d.Power.Poll() != 10*time.Millisecond {
		t.Fatalf("defaults not kept: %+v", d.Power)
	}
	if d.Buttons.Buttons[0].ThresholdMs != 1500 {
		t.Fatalf("threshold=%d", d.Buttons.Buttons[0].ThresholdMs)
	}
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		code errcode.Code
	}{
		{"unknown key", `{"power": {"nap": 1}}`, errcode.InvalidPayload},
		{"not json", `{`, errcode.InvalidPayload},
		{"zero poll", `{"power": {"poll_ms": 0}}`, errcode.InvalidParams},
		{"huge timeout", `{"power": {"disconnect_timeout_ms": 999999}}`, errcode.InvalidParams},
		{"slow poll", `{"power": {"poll_ms": 100}}`, errcode.InvalidParams},
		{"disconnect over 2s", `{"power": {"disconnect_timeout_ms": 2001}}`, errcode.InvalidParams},
		{"release over 5s", `{"power": {"release_timeout_ms": 5001}}`, errcode.InvalidParams},
		{"stretched waits", `{"power": {"poll_ms": 100, "disconnect_timeout_ms": 9000, "release_timeout_ms": 30000}}`, errcode.InvalidParams},
		{"dup button", `{"buttons": {"buttons": [{"name":"a","threshold_ms":100},{"name":"a","threshold_ms":100}]}}`, errcode.InvalidParams},
		{"threshold under poll", `{"buttons": {"poll_ms": 50, "buttons": [{"name":"a","threshold_ms":10}]}}`, errcode.InvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw))
			if !errors.Is(err, tc.code) {
				t.Fatalf("want %v, got %v", tc.code, err)
			}
		})
	}
}

func TestConfig_PublishEmbedded_RetainedPerSection(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "sim")
	if err := svc.publishConfig(ctx, conn); err != nil {
		t.Fatal(err)
	}

	// Retained messages arrive on subscribe.
	sub := conn.Subscribe(bus.T(configPrefix, "#"))
	got := map[string]any{}
	deadline := time.After(500 * time.Millisecond)
	for len(got) < 4 {
		select {
		case m := <-sub.Channel():
			key, ok := m.Topic.At(1).(string)
			if !ok {
				t.Fatalf("topic[1] type %T", m.Topic.At(1))
			}
			got[key] = m.Payload
		case <-deadline:
			t.Fatalf("got %d sections: %v", len(got), got)
		}
	}
	if p, ok := got["power"].(Power); !ok || p.PollMs != 10 {
		t.Fatalf("power payload = %#v", got["power"])
	}
	if bt, ok := got["buttons"].(Buttons); !ok || bt.Buttons[1].Pin != 2 {
		t.Fatalf("buttons payload = %#v", got["buttons"])
	}
	if pins, ok := got["pins"].(Pins); !ok || pins.SensorPower != 26 {
		t.Fatalf("pins payload = %#v", got["pins"])
	}
	if hb, ok := got["heartbeat"].(Heartbeat); !ok || hb.Interval != 2 {
		t.Fatalf("heartbeat payload = %#v", got["heartbeat"])
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); err == nil {
		t.Fatal("expected error for missing embedded config, got nil")
	}
}
