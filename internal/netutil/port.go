// Package netutil provides bind-address selection for the control API.
package netutil

import (
	"errors"
	"fmt"
	"net"
)

// PickBindAddr returns the first address that can be listened on, trying the
// preferred address before the fallback candidates. When autoFallback is off,
// a busy preferred address is an error rather than a fallthrough.
func PickBindAddr(preferred string, candidates []string, autoFallback bool) (string, error) {
	if preferred != "" {
		if addrAvailable(preferred) {
			return preferred, nil
		}
		if !autoFallback {
			return "", fmt.Errorf("preferred bind address in use: %s", preferred)
		}
	}
	for _, addr := range candidates {
		if addrAvailable(addr) {
			return addr, nil
		}
	}
	return "", errors.New("no available bind addresses")
}

func addrAvailable(addr string) bool {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}
