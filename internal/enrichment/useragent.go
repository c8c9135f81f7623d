package enrichment

import (
	"strings"

	"github.com/mssola/user_agent"
)

const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

type UAInfo struct {
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
	IsBot          bool
}

func ParseUserAgent(uaString string) *UAInfo {
	if strings.TrimSpace(uaString) == "" {
		return &UAInfo{Browser: "unknown", OS: "unknown", DeviceType: DeviceUnknown}
	}

	ua := user_agent.New(uaString)
	browser, version := ua.Browser()

	info := &UAInfo{
		Browser:        browser,
		BrowserVersion: version,
		OS:             ua.OS(),
		DeviceType:     DeviceDesktop,
		IsBot:          ua.Bot(),
	}

	switch {
	case info.IsBot:
		info.DeviceType = DeviceBot
	case strings.Contains(uaString, "iPad") || (strings.Contains(uaString, "Android") && !strings.Contains(uaString, "Mobile")):
		info.DeviceType = DeviceTablet
	case ua.Mobile():
		info.DeviceType = DeviceMobile
	}
	if info.OS == "" {
		info.OS = "unknown"
	}

	return info
}

// Info is everything derived from one request's client address and agent.
type Info struct {
	UAInfo
	Network string
}

func Enrich(ipAddress, userAgent string) Info {
	return Info{
		UAInfo:  *ParseUserAgent(userAgent),
		Network: NetworkClass(ipAddress),
	}
}
