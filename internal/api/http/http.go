package http

import (
	"net"
	"strconv"
)

const (
	DefaultHost          = "::"
	DefaultPort          = 8080
	DefaultDashboardPort = 1337
)

type Config struct {
	Host string `mapstructure:"host"`
	Port uint   `mapstructure:"port"`
}

// Addr is the listen address. The default host binds all IPv4 and IPv6
// interfaces.
func (c Config) Addr() string {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))
}
