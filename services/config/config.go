// Package config holds the node configuration: compiled-in defaults,
// per-device profiles built into the firmware, and (on host builds) YAML
// files.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config is the full node configuration. It is read once at boot.
type Config struct {
	Device   string        `yaml:"device"`
	Zone     int           `yaml:"zone"`
	LogLevel string        `yaml:"log_level"`
	LogJSON  bool          `yaml:"log_json"`
	WiFi     WiFiConfig    `yaml:"wifi"`
	MQTT     MQTTConfig    `yaml:"mqtt"`
	Publish  PublishConfig `yaml:"publish"`
	Board    BoardConfig   `yaml:"board"`

	// Heartbeat is the period of the status log line; zero disables it.
	Heartbeat time.Duration `yaml:"heartbeat"`
}

type WiFiConfig struct {
	SSID      string        `yaml:"ssid"`
	Password  string        `yaml:"password"`
	JoinRetry time.Duration `yaml:"join_retry"`
}

// MQTTConfig is a plaintext broker session; credentials are sent as-is.
type MQTTConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	Topic          string        `yaml:"topic"`
	QoS            byte          `yaml:"qos"`
	ClientIDPrefix string        `yaml:"client_id_prefix"`
	ConnectRetry   time.Duration `yaml:"connect_retry"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	KeepAlive      time.Duration `yaml:"keepalive"`
}

type PublishConfig struct {
	// Interval between readings while running.
	Interval time.Duration `yaml:"interval"`
	// PollTick is the input loop period.
	PollTick time.Duration `yaml:"poll_tick"`
}

// BoardConfig names the hardware the node is wired to. Names are
// platform-specific: "/dev/i2c-1" / "GPIO17" on host builds, ignored by
// firmware builds whose wiring is fixed by the board.
type BoardConfig struct {
	I2CBus     string        `yaml:"i2c_bus"`
	SensorAddr uint16        `yaml:"sensor_addr"`
	ButtonA    string        `yaml:"button_a"`
	ButtonB    string        `yaml:"button_b"`
	ActiveLow  bool          `yaml:"active_low"`
	Debounce   time.Duration `yaml:"debounce"`
	// Snapshot, when set on host builds, receives a PNG of the screen after
	// every redraw.
	Snapshot string `yaml:"snapshot"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Device:    "zone1",
		Zone:      1,
		LogLevel:  "info",
		Heartbeat: time.Minute,
		WiFi: WiFiConfig{
			JoinRetry: 500 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			Port:           1883,
			Topic:          "test",
			ClientIDPrefix: "M5Stack-",
			ConnectRetry:   5 * time.Second,
			ConnectTimeout: 10 * time.Second,
			KeepAlive:      15 * time.Second,
		},
		Publish: PublishConfig{
			Interval: 10 * time.Second,
			PollTick: 20 * time.Millisecond,
		},
		Board: BoardConfig{
			SensorAddr: 0x44,
			ButtonA:    "GPIO17",
			ButtonB:    "GPIO27",
			ActiveLow:  true,
			Debounce:   20 * time.Millisecond,
		},
	}
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Zone <= 0 {
		errs = append(errs, errors.New("zone must be positive"))
	}
	if strings.TrimSpace(c.MQTT.Host) == "" {
		errs = append(errs, errors.New("mqtt.host is required"))
	}
	if c.MQTT.Port <= 0 || c.MQTT.Port > 65535 {
		errs = append(errs, errors.New("mqtt.port out of range"))
	}
	if c.MQTT.Topic == "" || strings.ContainsAny(c.MQTT.Topic, "+#") {
		errs = append(errs, errors.New("mqtt.topic must be a non-empty topic name without wildcards"))
	}
	if c.MQTT.QoS > 2 {
		errs = append(errs, errors.New("mqtt.qos must be 0, 1 or 2"))
	}
	if c.MQTT.ConnectRetry <= 0 {
		errs = append(errs, errors.New("mqtt.connect_retry must be positive"))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, errors.New("heartbeat must not be negative"))
	}
	if c.WiFi.JoinRetry <= 0 {
		errs = append(errs, errors.New("wifi.join_retry must be positive"))
	}
	if c.Publish.Interval <= 0 {
		errs = append(errs, errors.New("publish.interval must be positive"))
	}
	if c.Publish.PollTick <= 0 || c.Publish.PollTick > c.Publish.Interval {
		errs = append(errs, errors.New("publish.poll_tick must be positive and not exceed publish.interval"))
	}
	if c.Board.SensorAddr == 0 || c.Board.SensorAddr > 0x7F {
		errs = append(errs, errors.New("board.sensor_addr must be a 7-bit I2C address"))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe for logging.
func (c Config) Redacted() Config {
	if c.WiFi.Password != "" {
		c.WiFi.Password = "***"
	}
	if c.MQTT.Password != "" {
		c.MQTT.Password = "***"
	}
	return c
}
