package discovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grandcat/zeroconf"
)

const (
	// Service is the mDNS service name without domain suffix.
	Service = "_lanbeam._tcp"
	// Domain is the mDNS domain.
	Domain = "local."
	// Version is the TXT record protocol version.
	Version = 1
)

// Announcer keeps the mDNS registration alive until shut down.
type Announcer struct {
	server *zeroconf.Server
}

// Announce registers the service on the local network so other machines
// can spot the transfer endpoint without typing an address. Pairing still
// requires the one-time token; discovery only reveals presence.
func Announce(instance string, port int) (*Announcer, error) {
	if strings.TrimSpace(instance) == "" {
		return nil, errors.New("instance name is required")
	}
	if port <= 0 {
		return nil, errors.New("listening port must be > 0")
	}

	txt := []string{fmt.Sprintf("version=%d", Version)}
	server, err := zeroconf.Register(instance, Service, Domain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("zeroconf register: %w", err)
	}
	return &Announcer{server: server}, nil
}

// Shutdown withdraws the registration.
func (a *Announcer) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
	}
}
