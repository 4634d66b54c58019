// Package app assembles a node from its configuration and an opened board.
package app

import (
	"context"
	"log/slog"
	"time"

	"zonesensor-go/services/config"
	"zonesensor-go/services/display"
	"zonesensor-go/services/hal/buttons"
	"zonesensor-go/services/hal/platform"
	"zonesensor-go/services/hal/sensor"
	"zonesensor-go/services/mqttlink"
	"zonesensor-go/services/node"
)

// closeQuiesce bounds how long Close waits for in-flight publishes.
const closeQuiesce = 250 * time.Millisecond

type App struct {
	Node   *node.Node
	Screen *display.Screen
	Sensor *sensor.Sensor
	Broker *mqttlink.Client
}

func Build(cfg config.Config, b *platform.Board, log *slog.Logger) *App {
	scr := display.NewScreen(b.Display, log.With("svc", "display"))
	sens := sensor.NewSHT3x(b.I2C, cfg.Board.SensorAddr, b.I2CName)

	bc := buttons.Config{Invert: b.ActiveLow, Debounce: cfg.Board.Debounce}
	pair := buttons.Pair{A: buttons.New(b.ButtonA, bc), B: buttons.New(b.ButtonB, bc)}

	broker := mqttlink.New(mqttlink.Config{
		Host:           cfg.MQTT.Host,
		Port:           cfg.MQTT.Port,
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		QoS:            cfg.MQTT.QoS,
		ConnectTimeout: cfg.MQTT.ConnectTimeout,
		KeepAlive:      cfg.MQTT.KeepAlive,
	}, log.With("svc", "mqtt"))

	n := node.New(node.Config{
		Zone:           cfg.Zone,
		Topic:          cfg.MQTT.Topic,
		SSID:           cfg.WiFi.SSID,
		Password:       cfg.WiFi.Password,
		Interval:       cfg.Publish.Interval,
		PollTick:       cfg.Publish.PollTick,
		JoinRetry:      cfg.WiFi.JoinRetry,
		ConnectRetry:   cfg.MQTT.ConnectRetry,
		ClientIDPrefix: cfg.MQTT.ClientIDPrefix,
		Heartbeat:      cfg.Heartbeat,
	}, node.Deps{
		Screen:  scr,
		Sensor:  sens,
		Buttons: pair,
		Station: b.Station,
		Broker:  broker,
	}, log.With("svc", "node"))

	return &App{Node: n, Screen: scr, Sensor: sens, Broker: broker}
}

// Run clears the screen and runs the node until ctx is cancelled, then
// closes the broker session.
func (a *App) Run(ctx context.Context) error {
	defer a.Broker.Close(closeQuiesce)
	a.Screen.Clear()
	return a.Node.Run(ctx)
}
