package utils

import (
	"fmt"
	"net"
)

// LANIP returns the machine's outbound LAN address. The UDP dial never
// sends a packet; it only forces the kernel to pick a route.
func LANIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}

// FindAvailablePort probes ports starting at start and returns the first
// one that binds, giving up after maxTries.
func FindAvailablePort(start, maxTries int) (int, error) {
	for port := start; port < start+maxTries; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, start+maxTries-1)
}
