//go:build !tinygo

package platform

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetStation_Joined(t *testing.T) {
	lo := net.Interface{Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagLoopback}
	eth := net.Interface{Index: 2, Name: "eth0", Flags: net.FlagUp}
	down := net.Interface{Index: 3, Name: "wlan0"}
	addr := &net.IPNet{IP: net.IPv4(192, 168, 1, 20), Mask: net.CIDRMask(24, 32)}

	s := NewNetStation(quietLog())
	s.addrs = func(i net.Interface) ([]net.Addr, error) {
		if i.Name == "eth0" {
			return nil, nil
		}
		return []net.Addr{addr}, nil
	}

	s.interfaces = func() ([]net.Interface, error) { return []net.Interface{lo, down}, nil }
	assert.False(t, s.Joined(), "loopback and down links do not count")

	s.interfaces = func() ([]net.Interface, error) { return []net.Interface{eth}, nil }
	assert.False(t, s.Joined(), "an up link without addresses does not count")

	up := net.Interface{Index: 4, Name: "wlan1", Flags: net.FlagUp}
	s.interfaces = func() ([]net.Interface, error) { return []net.Interface{lo, up}, nil }
	assert.True(t, s.Joined())

	s.interfaces = func() ([]net.Interface, error) { return nil, errors.New("netlink: permission denied") }
	assert.False(t, s.Joined())

	assert.NoError(t, s.Join("lab", "secret"))
	assert.True(t, s.logged)
}
