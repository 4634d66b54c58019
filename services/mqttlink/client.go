// Package mqttlink implements the node's broker session on top of the Eclipse
// Paho MQTT client.
//
// Paho's own reconnect logic is disabled: the node loop decides when to
// reconnect and with which client id (see netlink.Keeper). Incoming protocol
// traffic (keepalive pings, acks) is serviced by Paho's client goroutines.
package mqttlink

import (
	"errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"

	"zonesensor-go/errcode"
)

// Return codes reported by connect failures; transport failures are
// negative, broker refusals carry the CONNACK code.
const (
	RCTimeout       = -4
	RCConnectFailed = -2
	RCBadProtocol   = 1
	RCBadClientID   = 2
	RCUnavailable   = 3
	RCBadCredential = 4
	RCUnauthorized  = 5
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	QoS      byte

	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	KeepAlive      time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 1883
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 5 * time.Second
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = 15 * time.Second
	}
	return c
}

// ConnectError carries the return code of a failed connect.
type ConnectError struct {
	RC  int
	Err error
}

func (e *ConnectError) Error() string {
	return "mqtt connect rc=" + strconv.Itoa(e.RC) + ": " + e.Err.Error()
}
func (e *ConnectError) Unwrap() error      { return e.Err }
func (e *ConnectError) ReturnCode() int    { return e.RC }
func (e *ConnectError) Code() errcode.Code { return errcode.BrokerUnavailable }

// Client is a single broker session, replaced on every Connect.
type Client struct {
	cfg Config
	log *slog.Logger

	newClient func(*mqtt.ClientOptions) mqtt.Client
	c         mqtt.Client
}

func New(cfg Config, log *slog.Logger) *Client {
	return &Client{
		cfg:       cfg.withDefaults(),
		log:       log,
		newClient: mqtt.NewClient,
	}
}

// BrokerURL is the plaintext tcp:// URL of the configured broker.
func (c *Client) BrokerURL() string {
	return "tcp://" + net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
}

func (c *Client) options(clientID string) *mqtt.ClientOptions {
	o := mqtt.NewClientOptions().
		AddBroker(c.BrokerURL()).
		SetClientID(clientID).
		SetUsername(c.cfg.Username).
		SetPassword(c.cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(c.cfg.ConnectTimeout).
		SetKeepAlive(c.cfg.KeepAlive)
	o.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.log.Warn("broker connection lost", "broker", c.BrokerURL(), "error", err)
	})
	return o
}

// Connected reports whether the current session is open.
func (c *Client) Connected() bool {
	return c.c != nil && c.c.IsConnectionOpen()
}

// Connect drops any stale session and opens a new one as clientID.
func (c *Client) Connect(clientID string) error {
	if c.c != nil {
		c.c.Disconnect(0)
		c.c = nil
	}
	cl := c.newClient(c.options(clientID))
	tok := cl.Connect()
	if !tok.WaitTimeout(c.cfg.ConnectTimeout + time.Second) {
		// The handshake may still complete; stop it so no session outlives
		// this attempt.
		cl.Disconnect(0)
		return &ConnectError{RC: RCTimeout, Err: errcode.Timeout}
	}
	if err := tok.Error(); err != nil {
		return &ConnectError{RC: returnCode(err), Err: err}
	}
	c.c = cl
	return nil
}

func returnCode(err error) int {
	switch {
	case errors.Is(err, packets.ErrorRefusedBadProtocolVersion):
		return RCBadProtocol
	case errors.Is(err, packets.ErrorRefusedIDRejected):
		return RCBadClientID
	case errors.Is(err, packets.ErrorRefusedServerUnavailable):
		return RCUnavailable
	case errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword):
		return RCBadCredential
	case errors.Is(err, packets.ErrorRefusedNotAuthorised):
		return RCUnauthorized
	}
	return RCConnectFailed
}

// Publish sends payload to topic (not retained) and waits for the client to
// hand it off.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.Connected() {
		return errcode.Wrap(errcode.NotConnected, "mqttlink.Publish", errors.New(topic))
	}
	tok := c.c.Publish(topic, c.cfg.QoS, false, payload)
	if !tok.WaitTimeout(c.cfg.PublishTimeout) {
		return errcode.Wrap(errcode.PublishFailed, "mqttlink.Publish", errcode.Timeout)
	}
	return errcode.Wrap(errcode.PublishFailed, "mqttlink.Publish", tok.Error())
}

// Close disconnects, allowing quiesce for in-flight work.
func (c *Client) Close(quiesce time.Duration) {
	if c.c == nil {
		return
	}
	c.c.Disconnect(uint(quiesce / time.Millisecond))
	c.c = nil
}
