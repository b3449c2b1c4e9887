package util

import (
	"net"
	"strings"
)

// lanIPv4 returns the first private IPv4 address of an interface that is up,
// falling back to any non-loopback IPv4.
func lanIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	var fallback string
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		ip4 := ipnet.IP.To4()
		if ip4 == nil {
			continue
		}
		if ip4.IsPrivate() {
			return ip4.String()
		}
		if fallback == "" {
			fallback = ip4.String()
		}
	}
	return fallback
}

// ComposeLANURL turns a listen address into a URL a browser can open.
// Wildcard binds (":5031", "0.0.0.0:5031", "[::]:5031") are rewritten to the
// LAN address of this machine.
func ComposeLANURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	h := strings.Trim(strings.TrimSpace(host), "[]")
	if h == "" || h == "0.0.0.0" || h == "::" {
		if lan := lanIPv4(); lan != "" {
			return "http://" + net.JoinHostPort(lan, port)
		}
		h = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(h, port)
}
