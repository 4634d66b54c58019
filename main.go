//go:build tinygo && wioterminal

// Firmware entry for the Wio Terminal build:
//
//	tinygo flash -target wioterminal -ldflags "-X main.device=zone2 -X main.ssid=lab -X main.password=..." .
package main

import (
	"context"
	"machine"
	"time"

	"zonesensor-go/services/app"
	"zonesensor-go/services/config"
	"zonesensor-go/services/hal/platform"
	"zonesensor-go/x/strx"
)

// Set with -ldflags -X. Empty values keep the profile's.
var (
	device   = "zone1"
	ssid     string
	password string
	broker   string
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	cfg, ok := config.EmbeddedConfigLookup(device)
	if !ok {
		println("unknown device profile:", device)
		cfg = config.Default()
	}
	cfg.WiFi.SSID = strx.Coalesce(ssid, cfg.WiFi.SSID)
	cfg.WiFi.Password = strx.Coalesce(password, cfg.WiFi.Password)
	cfg.MQTT.Host = strx.Coalesce(broker, cfg.MQTT.Host)

	log, err := config.NewLogger(machine.Serial, cfg.LogLevel, false)
	if err != nil {
		println("log:", err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		return
	}

	board, err := platform.Open(cfg.Board, log.With("svc", "platform"))
	if err != nil {
		log.Error("board open failed", "error", err)
		return
	}
	log.Info("boot", "device", cfg.Device, "zone", cfg.Zone)
	if err := app.Build(cfg, board, log).Run(context.Background()); err != nil {
		log.Error("node stopped", "error", err)
	}
}
