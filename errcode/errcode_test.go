package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	cause := errors.New("i2c nack")
	for _, c := range []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", Timeout, Timeout},
		{"wrapped code", fmt.Errorf("join: %w", WiFiJoin), WiFiJoin},
		{"E", Wrap(SensorRead, "sensor.Read", cause), SensorRead},
		{"wrapped E", fmt.Errorf("step: %w", Wrap(PublishFailed, "publish", cause)), PublishFailed},
		{"foreign", cause, Error},
	} {
		if got := Of(c.err); got != c.want {
			t.Fatalf("%s: Of() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap(SensorRead, "op", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	cause := errors.New("bus fault")
	err := Wrap(SensorRead, "sensor.Read", cause)
	if !errors.Is(err, cause) {
		t.Fatal("Wrap should keep the cause reachable via errors.Is")
	}
	if got, want := err.Error(), "sensor.Read: sensor_read: bus fault"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
