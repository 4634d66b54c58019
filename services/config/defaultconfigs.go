package config

import "time"

// -----------------------------------------------------------------------------
// Built-in device profiles
//
// Key: device ID (the -device flag on host builds, the build-time device
// name on firmware builds). Profiles start from Default() and override what
// differs per installation.
// -----------------------------------------------------------------------------

var embeddedConfigs = map[string]func(c *Config){
	"zone1": func(c *Config) {
		c.Zone = 1
		c.MQTT.Host = "192.168.1.114"
		c.MQTT.Username = "client"
		c.MQTT.Password = "pass"
	},
	"zone2": func(c *Config) {
		c.Zone = 2
		c.MQTT.Host = "192.168.1.114"
		c.MQTT.Username = "client"
		c.MQTT.Password = "pass"
	},
	"dev": func(c *Config) {
		c.MQTT.Host = "localhost"
		c.LogLevel = "debug"
		c.Publish.Interval = 2 * time.Second
	},
}

// EmbeddedConfigLookup allows overriding how device profiles are resolved.
var EmbeddedConfigLookup = func(device string) (Config, bool) {
	apply, ok := embeddedConfigs[device]
	if !ok {
		return Config{}, false
	}
	c := Default()
	c.Device = device
	apply(&c)
	return c, true
}
