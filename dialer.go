package main

import (
	"fmt"
	"net"

	log "github.com/sirupsen/logrus"
)

// Connect resolves the target and opens the connected socket the flood
// writes to. The hostname may be an IPv4, IPv6, or DNS name and the
// service a port number or a named service.
func Connect(network, hostname, service string) (net.Conn, error) {
	address := net.JoinHostPort(hostname, service)

	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("it was not possible to connect to %s: %w", address, err)
	}

	log.Infof("A connection with the target (%s) has been established. Sending events...",
		conn.RemoteAddr())

	return conn, nil
}
