package utils

import (
	"encoding/hex"
	"net"

	"golang.org/x/crypto/blake2b"
)

// IPAnonymizer replaces visitor IPs before they are stored.
//
// With a key, the IP becomes a keyed BLAKE2b-256 digest (hex, 32 chars), so
// repeat visits stay correlatable without keeping the address. Without a key,
// IPv4 addresses are truncated to /24 and IPv6 addresses to /64.
type IPAnonymizer struct {
	key []byte
}

func NewIPAnonymizer(key string) *IPAnonymizer {
	a := &IPAnonymizer{}
	if key != "" {
		a.key = []byte(key)
		if len(a.key) > blake2b.Size {
			sum := blake2b.Sum256(a.key)
			a.key = sum[:]
		}
	}
	return a
}

// Anonymize returns the stored form of ip. Unparseable input yields "".
func (a *IPAnonymizer) Anonymize(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if len(a.key) > 0 {
		h, err := blake2b.New256(a.key)
		if err != nil {
			return ""
		}
		h.Write([]byte(parsed.String()))
		return hex.EncodeToString(h.Sum(nil))[:32]
	}
	return MaskIP(parsed)
}

// MaskIP zeroes the host part of an address: /24 for IPv4, /64 for IPv6.
func MaskIP(ip net.IP) string {
	if v4 := ip.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return ip.Mask(net.CIDRMask(64, 128)).String()
}
