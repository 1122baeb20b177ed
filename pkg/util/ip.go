package util

import (
	"net"
	"strings"
)

// IsIPv4 reports whether s is a dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	ip := net.ParseIP(strings.TrimSpace(s))
	return ip != nil && ip.To4() != nil
}

// IsSubnetMask reports whether s is a valid dotted-quad subnet mask
// (contiguous ones followed by contiguous zeros, e.g. 255.255.255.0).
func IsSubnetMask(s string) bool {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return false
	}
	v4 := ip.To4()
	if v4 == nil {
		return false
	}
	mask := net.IPMask(v4)
	ones, bits := mask.Size()
	return bits == 32 && (ones > 0 || mask.String() == "00000000")
}
