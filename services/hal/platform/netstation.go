//go:build !tinygo

package platform

import (
	"log/slog"
	"net"
)

// NetStation reports the host's own network link. Association is the
// operating system's job, so Join only logs the requested SSID once.
type NetStation struct {
	log *slog.Logger

	interfaces func() ([]net.Interface, error)
	addrs      func(net.Interface) ([]net.Addr, error)
	logged     bool
}

func NewNetStation(log *slog.Logger) *NetStation {
	return &NetStation{
		log:        log,
		interfaces: net.Interfaces,
		addrs:      func(i net.Interface) ([]net.Addr, error) { return i.Addrs() },
	}
}

func (s *NetStation) Join(ssid, _ string) error {
	if !s.logged {
		s.logged = true
		s.log.Info("wireless association is managed by the host", "ssid", ssid)
	}
	return nil
}

// Joined reports whether any non-loopback interface is up with an address.
func (s *NetStation) Joined() bool {
	ifs, err := s.interfaces()
	if err != nil {
		s.log.Warn("list interfaces", "error", err)
		return false
	}
	for _, i := range ifs {
		if i.Flags&net.FlagUp == 0 || i.Flags&net.FlagLoopback != 0 {
			continue
		}
		if as, err := s.addrs(i); err == nil && len(as) > 0 {
			return true
		}
	}
	return false
}
