package enrichment

import "net"

const (
	NetworkLoopback = "loopback"
	NetworkPrivate  = "private"
	NetworkPublic   = "public"
	NetworkUnknown  = "unknown"
)

// NetworkClass buckets a client address without any external lookup.
func NetworkClass(ipAddress string) string {
	ip := net.ParseIP(ipAddress)
	switch {
	case ip == nil:
		return NetworkUnknown
	case ip.IsLoopback():
		return NetworkLoopback
	case ip.IsPrivate(), ip.IsLinkLocalUnicast():
		return NetworkPrivate
	default:
		return NetworkPublic
	}
}
