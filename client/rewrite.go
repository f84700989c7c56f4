package client

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// resolveEndpoint turns an operator RPC address into a base URL. Bare
// host:port addresses get an http scheme. When rewriteLocal is set,
// non-routable hostnames (loopback, *.local) are swapped for localHost —
// a development accommodation for operator records registered from
// inside containers or mDNS environments, opt-in only.
func resolveEndpoint(rpcAddress string, rewriteLocal bool, localHost string) (string, error) {
	raw := rpcAddress
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("no host in %q", rpcAddress)
	}

	if rewriteLocal {
		host := u.Hostname()
		if isLocalHostname(host) && host != localHost {
			if port := u.Port(); port != "" {
				u.Host = net.JoinHostPort(localHost, port)
			} else {
				u.Host = localHost
			}
		}
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// isLocalHostname reports whether a hostname cannot be routed to from
// another machine: loopback names and addresses, and mDNS .local names.
func isLocalHostname(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".local") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
