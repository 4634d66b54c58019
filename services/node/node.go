// Package node runs the zone sensor: network bootstrap followed by a single
// polling loop that keeps the broker session up, handles the two front-panel
// buttons and publishes a reading every interval while running.
package node

import (
	"context"
	"log/slog"
	"time"

	"zonesensor-go/services/heartbeat"
	"zonesensor-go/services/netlink"
	"zonesensor-go/types"
)

// Screen is the display surface the loop drives.
type Screen interface {
	netlink.Console
	Title(zone int)
	ShowReadingLabels()
	ShowReading(temperature, humidity string)
	ShowState(running bool)
}

type Sensor interface {
	Read() (types.Reading, error)
}

// Buttons is the front panel: A starts/stops publishing, B shows the display
// test reading.
type Buttons interface {
	Update(now time.Time)
	APressed() bool
	BPressed() bool
}

type Config struct {
	Zone     int
	Topic    string
	SSID     string
	Password string

	Interval       time.Duration
	PollTick       time.Duration
	JoinRetry      time.Duration
	ConnectRetry   time.Duration
	ClientIDPrefix string
	Prompt         string
	// Heartbeat is the status log period; zero disables it.
	Heartbeat      time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 10 * time.Second
	}
	if c.PollTick <= 0 {
		c.PollTick = 20 * time.Millisecond
	}
	if c.JoinRetry <= 0 {
		c.JoinRetry = 500 * time.Millisecond
	}
	if c.ConnectRetry <= 0 {
		c.ConnectRetry = 5 * time.Second
	}
	if c.Prompt == "" {
		c.Prompt = "Press A to send data"
	}
	return c
}

type Deps struct {
	Screen  Screen
	Sensor  Sensor
	Buttons Buttons
	Station netlink.Station
	Broker  netlink.Broker
}

// Node is not safe for concurrent use: Boot, Step and Run belong to one
// goroutine.
type Node struct {
	cfg    Config
	log    *slog.Logger
	d      Deps
	keeper *netlink.Keeper
	beat   *heartbeat.Beat

	running     bool
	lastPublish time.Time
	published   int
}

func New(cfg Config, d Deps, log *slog.Logger) *Node {
	cfg = cfg.withDefaults()
	return &Node{
		cfg: cfg,
		log: log,
		d:   d,
		keeper: netlink.NewKeeper(d.Broker, d.Screen, log, netlink.KeeperConfig{
			Zone:           cfg.Zone,
			Topic:          cfg.Topic,
			ClientIDPrefix: cfg.ClientIDPrefix,
			ConnectRetry:   cfg.ConnectRetry,
		}),
		beat: heartbeat.New(cfg.Heartbeat, log),
	}
}

func (n *Node) Keeper() *netlink.Keeper { return n.keeper }
func (n *Node) Running() bool           { return n.running }
func (n *Node) Published() int          { return n.published }

// Boot draws the title, joins the network, opens the broker session and
// shows the start prompt.
func (n *Node) Boot(ctx context.Context) error {
	n.d.Screen.Title(n.cfg.Zone)
	if err := netlink.JoinWiFi(ctx, n.d.Station, n.cfg.SSID, n.cfg.Password, n.cfg.JoinRetry, n.d.Screen, n.log); err != nil {
		return err
	}
	if err := n.keeper.Ensure(ctx); err != nil {
		return err
	}
	n.d.Screen.Println(n.cfg.Prompt)
	n.log.Info("node ready", "zone", n.cfg.Zone, "topic", n.cfg.Topic, "interval", n.cfg.Interval)
	return nil
}

// Step runs one loop iteration at now. It only returns an error when ctx is
// cancelled during reconnection.
func (n *Node) Step(ctx context.Context, now time.Time) error {
	if !n.d.Station.Joined() {
		n.log.Warn("wifi link down, rejoining", "ssid", n.cfg.SSID)
		if err := netlink.JoinWiFi(ctx, n.d.Station, n.cfg.SSID, n.cfg.Password, n.cfg.JoinRetry, n.d.Screen, n.log); err != nil {
			return err
		}
	}
	if err := n.keeper.Ensure(ctx); err != nil {
		return err
	}

	n.d.Buttons.Update(now)
	if n.d.Buttons.APressed() {
		n.toggle()
	}
	if n.running && n.due(now) {
		n.publish(now)
	}
	if n.d.Buttons.BPressed() {
		n.log.Debug("display test reading")
		n.d.Screen.ShowReading(types.DemoReading.TemperatureText(), types.DemoReading.HumidityText())
	}
	n.beat.Tick(now, n.status)
	return nil
}

func (n *Node) status() heartbeat.Status {
	return heartbeat.Status{
		Running:   n.running,
		Published: n.published,
		Connects:  n.keeper.Connects(),
		LinkUp:    n.d.Station.Joined(),
	}
}

func (n *Node) toggle() {
	if !n.running && n.lastPublish.IsZero() {
		n.d.Screen.ShowReadingLabels()
		n.readAndShow()
	}
	n.running = !n.running
	n.d.Screen.ShowState(n.running)
	n.log.Info("publishing toggled", "running", n.running)
}

func (n *Node) due(now time.Time) bool {
	return n.lastPublish.IsZero() || now.Sub(n.lastPublish) > n.cfg.Interval
}

func (n *Node) readAndShow() types.Reading {
	r, err := n.d.Sensor.Read()
	if err != nil {
		n.log.Warn("sensor read failed, using zero reading", "error", err)
	}
	n.d.Screen.ShowReading(r.TemperatureText(), r.HumidityText())
	return r
}

func (n *Node) publish(now time.Time) {
	r := n.readAndShow()
	n.lastPublish = now
	payload := r.Payload()
	if err := n.d.Broker.Publish(n.cfg.Topic, payload); err != nil {
		n.log.Warn("reading dropped", "topic", n.cfg.Topic, "error", err)
		return
	}
	n.published++
	n.log.Debug("reading published", "topic", n.cfg.Topic, "payload", string(payload), "sensor_ok", r.OK)
}

// Run boots the node and then steps every PollTick until ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	if err := n.Boot(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	tick := time.NewTicker(n.cfg.PollTick)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			n.log.Info("node stopping", "published", n.published)
			return nil
		case now := <-tick.C:
			if err := n.Step(ctx, now); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
