// Package netlink brings the node onto the network and keeps its broker
// session alive.
//
// Both stages retry forever with a fixed delay: the Wi-Fi join polls every
// JoinRetry and the broker connect retries every ConnectRetry, each attempt
// using a fresh client id. Every successful broker connect publishes the
// zone announcement.
package netlink

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"zonesensor-go/errcode"
	"zonesensor-go/x/conv"
)

// Console receives human-readable progress (the screen's console area).
type Console interface {
	Print(text string)
	Println(text string)
}

// Station is the wireless link.
type Station interface {
	// Join makes one association attempt. Implementations that associate in
	// the background may return nil and report progress via Joined.
	Join(ssid, password string) error
	Joined() bool
}

// Broker is the publish side of a pub/sub client session.
type Broker interface {
	Connected() bool
	Connect(clientID string) error
	Publish(topic string, payload []byte) error
}

// ReturnCoder is implemented by connect errors that carry a client return
// code (negative for transport failures, CONNACK codes otherwise).
type ReturnCoder interface {
	ReturnCode() int
}

// SleepCtx waits d or until ctx is done.
func SleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// JoinWiFi blocks until st reports joined or ctx is cancelled, printing a dot
// per failed poll.
func JoinWiFi(ctx context.Context, st Station, ssid, password string, retry time.Duration, con Console, log *slog.Logger) error {
	con.Print("Connecting to " + ssid)
	log.Info("wifi joining", "ssid", ssid)
	attempts := 0
	for !st.Joined() {
		attempts++
		if err := st.Join(ssid, password); err != nil {
			log.Debug("wifi join attempt failed", "ssid", ssid, "attempt", attempts, "error", err)
		}
		if st.Joined() {
			break
		}
		con.Print(".")
		if err := SleepCtx(ctx, retry); err != nil {
			return errcode.Wrap(errcode.WiFiJoin, "netlink.JoinWiFi", err)
		}
	}
	con.Println("")
	con.Println("Success")
	log.Info("wifi joined", "ssid", ssid, "attempts", attempts)
	return nil
}

type KeeperConfig struct {
	Zone           int
	Topic          string
	ClientIDPrefix string
	ConnectRetry   time.Duration
}

// Keeper owns broker session upkeep for the node loop.
type Keeper struct {
	b   Broker
	con Console
	log *slog.Logger
	cfg KeeperConfig

	// Rand returns the client id suffix source; replaced in tests.
	Rand func() uint64

	connects int
}

func NewKeeper(b Broker, con Console, log *slog.Logger, cfg KeeperConfig) *Keeper {
	return &Keeper{
		b:    b,
		con:  con,
		log:  log,
		cfg:  cfg,
		Rand: func() uint64 { return uint64(rand.Intn(0xffff)) },
	}
}

// ClientID returns a fresh "<prefix><hex>" id.
func (k *Keeper) ClientID() string {
	var buf [16]byte
	return k.cfg.ClientIDPrefix + string(conv.Hex(buf[:], k.Rand()))
}

// Announcement is the message published after each successful connect.
func Announcement(zone int) []byte {
	return []byte("Zone " + strconv.Itoa(zone) + " connected")
}

// Connects reports how many sessions have been established.
func (k *Keeper) Connects() int { return k.connects }

// Ensure returns immediately when the session is up; otherwise it retries
// Connect every ConnectRetry until it succeeds or ctx is cancelled.
func (k *Keeper) Ensure(ctx context.Context) error {
	for !k.b.Connected() {
		k.con.Print("Attempting MQTT connection...")
		id := k.ClientID()
		err := k.b.Connect(id)
		if err == nil {
			k.connects++
			k.con.Println("")
			k.con.Println("Success")
			k.log.Info("broker connected", "client_id", id, "sessions", k.connects)
			if perr := k.b.Publish(k.cfg.Topic, Announcement(k.cfg.Zone)); perr != nil {
				k.log.Warn("announcement publish failed", "topic", k.cfg.Topic, "error", perr)
			}
			continue
		}

		rc := returnCode(err)
		k.con.Print("failed, rc=" + rc)
		k.con.Println(" try again in " + seconds(k.cfg.ConnectRetry))
		k.log.Warn("broker connect failed", "client_id", id, "rc", rc, "error", err, "retry", k.cfg.ConnectRetry)
		if err := SleepCtx(ctx, k.cfg.ConnectRetry); err != nil {
			return errcode.Wrap(errcode.BrokerUnavailable, "netlink.Ensure", err)
		}
	}
	return nil
}

func returnCode(err error) string {
	var rc ReturnCoder
	if errors.As(err, &rc) {
		return strconv.Itoa(rc.ReturnCode())
	}
	return string(errcode.Of(err))
}

func seconds(d time.Duration) string {
	s := int(d / time.Second)
	if s == 1 {
		return "1 second"
	}
	if s == 0 {
		return d.String()
	}
	return strconv.Itoa(s) + " seconds"
}
